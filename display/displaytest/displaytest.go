// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package displaytest provides a display backend that records every call
// it receives, for tests.
package displaytest

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/window"
)

// ErrInjected is returned by failures requested through Backend fields.
var ErrInjected = errors.New("displaytest: injected failure")

// Op names a display method.
type Op string

const (
	OpNew     Op = "new"
	OpSetSize Op = "setsize"
	OpPrepare Op = "prepare"
	OpPresent Op = "present"
	OpRelease Op = "release"
)

// Call is one recorded call. Width and Height are the display size when
// the call was made, after the call for OpSetSize.
type Call struct {
	Display       int
	Op            Op
	Width, Height int
}

// Backend is a display.Backend recording calls on all its displays.
type Backend struct {
	// FailNew makes the n-th call to NewDisplay (counting from 1) fail.
	FailNew int

	// PrepareNil makes Prepare drop every frame.
	PrepareNil bool

	mu         sync.Mutex
	news       int
	displays   []*Display
	calls      []Call
	violations []string
}

// NewDisplay implements display.Backend.
func (b *Backend) NewDisplay(w window.Window, f frame.Format, cfg display.Config) (display.Display, error) {
	b.mu.Lock()
	b.news++
	if b.news == b.FailNew {
		b.mu.Unlock()
		return nil, ErrInjected
	}
	d := &Display{
		ID:     len(b.displays),
		Window: w,
		Format: f,
		Config: cfg,
		b:      b,
		width:  cfg.Width,
		height: cfg.Height,
	}
	b.displays = append(b.displays, d)
	b.mu.Unlock()
	d.record(OpNew)
	return d, nil
}

// Displays returns the displays created so far.
func (b *Backend) Displays() []*Display {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Display(nil), b.displays...)
}

// Calls returns the calls recorded so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsOf returns the recorded calls of the given kind.
func (b *Backend) CallsOf(op Op) []Call {
	var cs []Call
	for _, c := range b.Calls() {
		if c.Op == op {
			cs = append(cs, c)
		}
	}
	return cs
}

// Live returns the number of displays not yet released.
func (b *Backend) Live() int {
	n := 0
	for _, d := range b.Displays() {
		if !d.Released() {
			n++
		}
	}
	return n
}

// Violations describes contract violations seen so far: concurrent calls
// on one display and calls after Release.
func (b *Backend) Violations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.violations...)
}

func (b *Backend) violate(msg string) {
	b.mu.Lock()
	b.violations = append(b.violations, msg)
	b.mu.Unlock()
}

// Display is a recording display.
type Display struct {
	ID     int
	Window window.Window
	Format frame.Format
	Config display.Config

	b    *Backend
	busy atomic.Int32

	// Guarded by the caller's serialization, checked with busy.
	width, height int
	released      atomic.Bool
}

func (d *Display) enter(op Op) {
	if d.busy.Add(1) != 1 {
		d.b.violate(string(op) + " called concurrently")
	}
	if d.released.Load() {
		d.b.violate(string(op) + " called after release")
	}
}

func (d *Display) leave() { d.busy.Add(-1) }

func (d *Display) record(op Op) {
	d.b.mu.Lock()
	d.b.calls = append(d.b.calls, Call{Display: d.ID, Op: op, Width: d.width, Height: d.height})
	d.b.mu.Unlock()
}

func (d *Display) SetSize(width, height int) {
	d.enter(OpSetSize)
	defer d.leave()
	d.width, d.height = width, height
	d.record(OpSetSize)
}

func (d *Display) Prepare(f *frame.Frame, date time.Time) *frame.Frame {
	d.enter(OpPrepare)
	defer d.leave()
	d.record(OpPrepare)
	if d.b.PrepareNil {
		f.Release()
		return nil
	}
	return f
}

func (d *Display) Present(f *frame.Frame) {
	d.enter(OpPresent)
	defer d.leave()
	if f.Refs() < 1 {
		d.b.violate("present of a released frame")
	}
	d.record(OpPresent)
}

func (d *Display) Release() {
	d.enter(OpRelease)
	defer d.leave()
	d.released.Store(true)
	d.record(OpRelease)
}

// Released reports whether Release was called.
func (d *Display) Released() bool { return d.released.Load() }
