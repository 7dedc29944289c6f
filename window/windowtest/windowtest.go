// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package windowtest provides an in-memory window backend for tests.
//
// Each window delivers its events on a goroutine of its own, one at a
// time, as a real window system would. Tests inject events with the
// Window methods and call Sync to wait until they have been handled.
package windowtest

import (
	"errors"
	"sync"

	"github.com/fanout/vidsplit/internal/pump"
	"github.com/fanout/vidsplit/window"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// ErrInjected is returned by failures requested through Backend fields.
var ErrInjected = errors.New("windowtest: injected failure")

// Backend is a window.Backend keeping every window it creates.
type Backend struct {
	// FailNew makes the n-th call to NewWindow (counting from 1) fail.
	FailNew int

	// FailEnable makes Enable of the n-th window (counting from 1) fail.
	FailEnable int

	// Negotiate, if not nil, picks the size reported when a window is
	// enabled. The requested size is reported otherwise.
	Negotiate func(cfg window.Config) (width, height int)

	mu      sync.Mutex
	calls   int
	windows []*Window
}

// NewWindow implements window.Backend.
func (b *Backend) NewWindow(cfg window.Config, owner window.Owner) (window.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls == b.FailNew {
		return nil, ErrInjected
	}
	w := &Window{
		Config:     cfg,
		backend:    b,
		owner:      owner,
		pump:       pump.Make(),
		failEnable: b.calls == b.FailEnable,
	}
	b.windows = append(b.windows, w)
	return w, nil
}

// Windows returns the windows created so far, released or not.
func (b *Backend) Windows() []*Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Window(nil), b.windows...)
}

// Live returns the number of windows not yet released.
func (b *Backend) Live() int {
	n := 0
	for _, w := range b.Windows() {
		if !w.Released() {
			n++
		}
	}
	return n
}

// Window is an in-memory window.
type Window struct {
	Config window.Config

	backend    *Backend
	owner      window.Owner
	pump       *pump.Pump
	failEnable bool

	mu       sync.Mutex
	enabled  bool
	released bool
}

// Enable implements window.Window.
func (w *Window) Enable() error {
	if w.failEnable {
		return ErrInjected
	}
	w.mu.Lock()
	w.enabled = true
	w.mu.Unlock()

	width, height := w.Config.Width, w.Config.Height
	if w.backend.Negotiate != nil {
		width, height = w.backend.Negotiate(w.Config)
	}
	w.Resize(width, height, nil)
	return nil
}

// Disable implements window.Window.
func (w *Window) Disable() {
	w.mu.Lock()
	w.enabled = false
	w.mu.Unlock()
	w.pump.Flush()
}

// Release implements window.Window.
func (w *Window) Release() {
	w.mu.Lock()
	w.enabled = false
	w.released = true
	w.mu.Unlock()
	w.pump.Release()
}

// Enabled reports whether the window delivers events.
func (w *Window) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

// Released reports whether Release was called.
func (w *Window) Released() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.released
}

func (w *Window) deliver(fn func(window.Owner)) {
	w.pump.Send(func() {
		if w.Enabled() {
			fn(w.owner)
		}
	})
}

// Resize queues a size change.
func (w *Window) Resize(width, height int, ack window.AckFunc) {
	w.deliver(func(o window.Owner) { o.Resized(width, height, ack) })
}

// Close queues a close notification, as if the user closed the window.
func (w *Window) Close() {
	w.deliver(func(o window.Owner) { o.Closed() })
}

// Mouse queues a mouse event.
func (w *Window) Mouse(ev mouse.Event) {
	w.deliver(func(o window.Owner) { o.MouseEvent(ev) })
}

// Key queues a keyboard event.
func (w *Window) Key(ev key.Event) {
	w.deliver(func(o window.Owner) { o.KeyboardEvent(ev) })
}

// Sync waits until all queued events have been handled.
func (w *Window) Sync() {
	w.pump.Flush()
}

// Parent is a window.Parent recording what it receives.
type Parent struct {
	mu   sync.Mutex
	mice []mouse.Event
	keys []key.Event
}

func (p *Parent) SendMouseEvent(ev mouse.Event) {
	p.mu.Lock()
	p.mice = append(p.mice, ev)
	p.mu.Unlock()
}

func (p *Parent) ReportKeyPress(ev key.Event) {
	p.mu.Lock()
	p.keys = append(p.keys, ev)
	p.mu.Unlock()
}

// MouseEvents returns the mouse events received so far.
func (p *Parent) MouseEvents() []mouse.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mouse.Event(nil), p.mice...)
}

// KeyEvents returns the key events received so far.
func (p *Parent) KeyEvents() []key.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]key.Event(nil), p.keys...)
}
