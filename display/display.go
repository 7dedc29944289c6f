// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display defines the rendering pipelines that draw frames into a
// window, and a registry to select them by name.
package display

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/window"
	"golang.org/x/xerrors"
)

// ErrUnknown is returned by Lookup for a name that has not been registered.
var ErrUnknown = errors.New("display: unknown backend")

// Display renders frames into one window.
//
// A Display is not safe for concurrent use; its owner serializes every
// call, including Release.
type Display interface {
	// SetSize changes the size of the rendering area.
	SetSize(width, height int)

	// Prepare gets f ready to be presented at date. It takes ownership of
	// the reference on f and returns the frame to pass to Present, or nil
	// if there is nothing to present. Ownership of the result passes to
	// the caller.
	Prepare(f *frame.Frame, date time.Time) *frame.Frame

	// Present shows a frame returned by Prepare. The caller keeps its
	// reference.
	Present(f *frame.Frame)

	// Release destroys the display.
	Release()
}

// Config is the configuration of a new display.
type Config struct {
	Placement

	// Width and Height are the initial size of the rendering area.
	Width, Height int
}

// Backend creates displays.
type Backend interface {
	NewDisplay(w window.Window, f frame.Format, cfg Config) (Display, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(w window.Window, f frame.Format, cfg Config) (Display, error)

func (fn BackendFunc) NewDisplay(w window.Window, f frame.Format, cfg Config) (Display, error) {
	return fn(w, f, cfg)
}

// Registry maps backend names to backends.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// Register makes b available under name. It panics if name is empty, b is
// nil or name is already registered.
func (r *Registry) Register(name string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		panic("display: Register with empty name")
	}
	if b == nil {
		panic("display: Register backend is nil")
	}
	if _, dup := r.backends[name]; dup {
		panic("display: Register called twice for " + name)
	}
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	r.backends[name] = b
}

// Lookup returns the backend registered under name.
func (r *Registry) Lookup(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return nil, xerrors.Errorf("%q: %w", name, ErrUnknown)
	}
	return b, nil
}

// Names returns the sorted registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the registry used by the package level functions.
var Default = new(Registry)

// Register registers b in the Default registry.
func Register(name string, b Backend) { Default.Register(name, b) }

// Lookup looks name up in the Default registry.
func Lookup(name string) (Backend, error) { return Default.Lookup(name) }
