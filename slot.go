// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"context"
	"sync/atomic"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/window"
	"github.com/go-logr/logr"
	"golang.org/x/sync/semaphore"
)

// A slot is one output: a window and the display drawing into it.
type slot struct {
	index int
	c     *Coordinator
	log   logr.Logger

	// gate serializes every use of display, width and height. The producer
	// holds it from Prepare to Display.
	gate *semaphore.Weighted

	// held is only accessed by the producer goroutine. It records that the
	// producer owns gate.
	held bool

	window window.Window

	// display is nil until the slot is fully built and again after its
	// window was closed.
	display       display.Display
	width, height int

	// state mirrors width, height and display for Stats.
	state atomic.Pointer[OutputStats]
}

func newSlot(c *Coordinator, index int) *slot {
	s := &slot{
		index:  index,
		c:      c,
		log:    c.log.WithValues("output", index),
		gate:   semaphore.NewWeighted(1),
		width:  1,
		height: 1,
	}
	s.publish()
	return s
}

// lock acquires the gate. It cannot fail as the context is never done.
func (s *slot) lock() {
	_ = s.gate.Acquire(context.Background(), 1)
}

func (s *slot) unlock() {
	s.gate.Release(1)
}

// publish must be called with the gate held.
func (s *slot) publish() {
	s.state.Store(&OutputStats{
		Width:  s.width,
		Height: s.height,
		Live:   s.display != nil,
	})
}

// detach takes the display away from the slot. It must be called with the
// gate held; the caller releases the result after unlocking.
func (s *slot) detach() display.Display {
	d := s.display
	s.display = nil
	s.publish()
	return d
}

// destroy tears the slot down. The caller must hold the gate, and gives it
// up to destroy.
func (s *slot) destroy() {
	d := s.detach()
	s.unlock()
	if d != nil {
		d.Release()
	}
	s.window.Disable()
	s.window.Release()
}
