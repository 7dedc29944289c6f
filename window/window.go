// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package window defines the window system primitives used to host output
// surfaces.
//
// A Backend creates windows on behalf of an Owner. The backend reports what
// happens to each window by calling the Owner's methods from goroutines of
// its choosing, with at most one call in flight per window at a time.
// Different windows may report concurrently.
package window

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// Config describes a window to create.
type Config struct {
	// Width and Height are the desired client area size in pixels.
	Width, Height int

	Title     string
	Decorated bool
}

// AckFunc acknowledges a size change. It is called with the size the owner
// has committed to.
type AckFunc func(width, height int)

// Owner receives window notifications.
type Owner interface {
	// Resized reports the new client area size. If ack is not nil, the
	// owner calls it before returning.
	Resized(width, height int, ack AckFunc)

	// Closed reports that the user or the window system closed the window.
	// The window itself stays valid until Release.
	Closed()

	MouseEvent(ev mouse.Event)
	KeyboardEvent(ev key.Event)
}

// Window is a window created by a Backend.
type Window interface {
	// Enable shows the window and starts event delivery. The backend
	// reports the negotiated size with Resized, possibly before Enable
	// returns.
	Enable() error

	// Disable stops event delivery. No Owner method is running or will be
	// called for this window once Disable returns.
	Disable()

	// Release destroys the window.
	Release()
}

// Backend creates windows.
type Backend interface {
	NewWindow(cfg Config, owner Owner) (Window, error)
}

// Parent is the window that hosts the whole output. Input received by
// output windows is forwarded to it.
type Parent interface {
	SendMouseEvent(ev mouse.Event)
	ReportKeyPress(ev key.Event)
}
