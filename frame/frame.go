// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame provides reference-counted picture buffers.
//
// A Frame starts with one reference, owned by whoever created it. Every
// Hold must be balanced by a Release; the release hook passed to New runs
// when the last reference goes away, which lets producers recycle pixel
// memory through a pool.
package frame

import (
	"image"
	"sync/atomic"
	"time"
)

// Frame is one decoded picture.
type Frame struct {
	Image  *image.RGBA
	Format Format

	// Date is the presentation timestamp of the frame.
	Date time.Time

	refs    atomic.Int32
	release func(*Frame)
}

// New returns a Frame holding a single reference. release, if not nil, is
// called once the last reference is released.
func New(img *image.RGBA, f Format, release func(*Frame)) *Frame {
	fr := &Frame{Image: img, Format: f, release: release}
	fr.refs.Store(1)
	return fr
}

// FromImage returns a Frame describing the whole of img with square pixels.
func FromImage(img *image.RGBA, date time.Time) *Frame {
	b := img.Bounds()
	fr := New(img, Format{
		Chroma:  "RGBA",
		Width:   b.Dx(),
		Height:  b.Dy(),
		Visible: b,
	}, nil)
	fr.Date = date
	return fr
}

// Hold adds a reference to f and returns f.
func (f *Frame) Hold() *Frame {
	if f.refs.Add(1) <= 1 {
		panic("frame: Hold on released frame")
	}
	return f
}

// Release drops a reference to f.
func (f *Frame) Release() {
	switch n := f.refs.Add(-1); {
	case n == 0:
		if f.release != nil {
			f.release(f)
		}
	case n < 0:
		panic("frame: Release of released frame")
	}
}

// Refs reports the current number of references. It is meant for tests and
// diagnostics; the value may be stale by the time it is used.
func (f *Frame) Refs() int {
	return int(f.refs.Load())
}

// Derive returns a new Frame that shares img's pixels with the parent f and
// holds a reference on f until it is itself released.
func (f *Frame) Derive(img *image.RGBA, format Format) *Frame {
	f.Hold()
	d := New(img, format, func(*Frame) { f.Release() })
	d.Date = f.Date
	return d
}
