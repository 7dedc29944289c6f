// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"github.com/fanout/vidsplit/window"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// The slot is the owner of its window. Its methods run on window backend
// goroutines.
var _ window.Owner = (*slot)(nil)

func (s *slot) Resized(width, height int, ack window.AckFunc) {
	s.lock()
	defer s.unlock()

	s.width, s.height = width, height
	if s.display != nil {
		s.display.SetSize(width, height)
	}
	if ack != nil {
		ack(width, height)
	}
	s.publish()

	s.c.n.resized.Add(1)
	s.c.ins.windowEvent(eventResized)
	s.log.V(1).Info("window resized", "width", width, "height", height)
}

func (s *slot) Closed() {
	s.lock()
	d := s.detach()
	s.unlock()

	// Destroying a display can be slow; it must not hold up the producer.
	if d != nil {
		d.Release()
	}

	s.c.n.closed.Add(1)
	s.c.ins.windowEvent(eventClosed)
	s.log.Info("window closed", "hadDisplay", d != nil)
}

func (s *slot) MouseEvent(ev mouse.Event) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ins.windowEvent(eventMouse)
	ev, ok := c.alg.Mouse(s.index, ev)
	if !ok {
		return
	}
	if c.parent != nil {
		c.parent.SendMouseEvent(ev)
	}
}

func (s *slot) KeyboardEvent(ev key.Event) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ins.windowEvent(eventKey)
	if c.parent != nil {
		c.parent.ReportKeyPress(ev)
	}
}
