// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shinydrv hosts outputs in shiny windows.
//
// Backend creates the windows and Displays draws into them. A display can
// only be created for a window of the same screen.
package shinydrv

import (
	"sync"

	"github.com/fanout/vidsplit/window"
	"github.com/go-logr/logr"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/xerrors"
)

// Backend is a window.Backend creating top-level windows on a screen.
type Backend struct {
	Screen screen.Screen
	Log    logr.Logger
}

// NewWindow implements window.Backend.
func (b *Backend) NewWindow(cfg window.Config, owner window.Owner) (window.Window, error) {
	sw, err := b.Screen.NewWindow(&screen.NewWindowOptions{
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
	})
	if err != nil {
		return nil, xerrors.Errorf("shinydrv: %w", err)
	}
	return &Window{
		screen: b.Screen,
		sw:     sw,
		owner:  owner,
		log:    b.Log.WithValues("title", cfg.Title),
	}, nil
}

// stopEvent ends a window's event loop.
type stopEvent struct{}

// Window is a shiny window reporting to a window.Owner.
type Window struct {
	screen screen.Screen
	sw     screen.Window
	owner  window.Owner
	log    logr.Logger

	mu       sync.Mutex
	done     chan struct{} // non-nil while the event loop runs
	released bool
}

// Enable starts delivering the window's events to its owner.
func (w *Window) Enable() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return xerrors.New("shinydrv: Enable of released window")
	}
	if w.done == nil {
		w.done = make(chan struct{})
		go w.run(w.done)
	}
	return nil
}

// Disable stops the event loop and waits for it to return.
func (w *Window) Disable() {
	w.mu.Lock()
	done := w.done
	w.done = nil
	w.mu.Unlock()
	if done == nil {
		return
	}
	w.sw.SendFirst(stopEvent{})
	<-done
}

// Release closes the window. It may be called more than once.
func (w *Window) Release() {
	w.Disable()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return
	}
	w.released = true
	w.sw.Release()
}

func (w *Window) run(done chan struct{}) {
	defer close(done)
	for {
		switch e := w.sw.NextEvent().(type) {
		case stopEvent:
			return
		case size.Event:
			w.owner.Resized(e.WidthPx, e.HeightPx, nil)
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				w.owner.Closed()
			}
		case mouse.Event:
			w.owner.MouseEvent(e)
		case key.Event:
			w.owner.KeyboardEvent(e)
		case paint.Event:
			// The next frame repaints the whole window.
		case error:
			w.log.Error(e, "window error")
		}
	}
}

// Parent forwards input to a shiny window, to be handled by its own event
// loop.
type Parent struct {
	Window screen.Window
}

func (p Parent) SendMouseEvent(ev mouse.Event) { p.Window.Send(ev) }
func (p Parent) ReportKeyPress(ev key.Event)   { p.Window.Send(ev) }
