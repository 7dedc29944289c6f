// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splitter defines video splitter algorithms and a registry to
// select them by name.
//
// An algorithm declares a fixed list of outputs when it is loaded and then
// maps each input frame to one sub-frame per output. Algorithms are not
// required to be safe for concurrent use: callers serialize Split and Mouse.
//
// Algorithm packages register themselves from an init function, in the
// manner of image formats:
//
//	import _ "github.com/fanout/vidsplit/splitter/wall"
package splitter

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fanout/vidsplit/frame"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/xerrors"
)

// ErrUnknown is returned by Load for a name that has not been registered.
var ErrUnknown = errors.New("splitter: unknown algorithm")

// Output describes one output of an algorithm.
type Output struct {
	Format frame.Format

	// Backend names the display backend to render this output with. An
	// empty name selects the caller's default.
	Backend string
}

// Algorithm splits frames into sub-frames.
type Algorithm interface {
	// Outputs returns the outputs declared at load time. The result must
	// not change for the lifetime of the algorithm.
	Outputs() []Output

	// Split consumes the reference on f and returns at most one sub-frame
	// per output, in output order. A nil entry means the output gets no
	// picture this time. Each returned sub-frame carries one reference
	// owned by the caller. On error no sub-frames are returned.
	Split(f *frame.Frame) ([]*frame.Frame, error)

	// Mouse converts ev from the coordinate space of output index to the
	// coordinate space of the source. It reports false if the event does
	// not map onto the source.
	Mouse(index int, ev mouse.Event) (mouse.Event, bool)

	// Close releases the algorithm's resources.
	Close()
}

// Options carries algorithm specific settings as strings.
type Options map[string]string

// Int returns the integer option key, or def if it is not set.
func (o Options) Int(key string, def int) (int, error) {
	s, ok := o[key]
	if !ok || s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, xerrors.Errorf("splitter: option %s: %w", key, err)
	}
	return n, nil
}

// Ints returns the comma separated integer list stored under key.
func (o Options) Ints(key string) ([]int, error) {
	var ns []int
	for _, f := range o.List(key) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, xerrors.Errorf("splitter: option %s: %w", key, err)
		}
		ns = append(ns, n)
	}
	return ns, nil
}

// List returns the comma separated list stored under key, with blanks
// trimmed and empty items dropped.
func (o Options) List(key string) []string {
	var l []string
	for _, f := range strings.Split(o[key], ",") {
		if f = strings.TrimSpace(f); f != "" {
			l = append(l, f)
		}
	}
	return l
}

// Get returns the option key, or def if it is not set.
func (o Options) Get(key, def string) string {
	if s, ok := o[key]; ok && s != "" {
		return s
	}
	return def
}

// Loader creates an algorithm for frames of the given source format.
type Loader func(source frame.Format, opts Options) (Algorithm, error)

// Registry maps algorithm names to loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// Register makes a loader available under name. It panics if name is empty,
// loader is nil or name is already registered.
func (r *Registry) Register(name string, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		panic("splitter: Register with empty name")
	}
	if loader == nil {
		panic("splitter: Register loader is nil")
	}
	if _, dup := r.loaders[name]; dup {
		panic("splitter: Register called twice for " + name)
	}
	if r.loaders == nil {
		r.loaders = make(map[string]Loader)
	}
	r.loaders[name] = loader
}

// Load creates the algorithm registered under name.
func (r *Registry) Load(name string, source frame.Format, opts Options) (Algorithm, error) {
	r.mu.RLock()
	loader, ok := r.loaders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, xerrors.Errorf("%q: %w", name, ErrUnknown)
	}
	a, err := loader(source, opts)
	if err != nil {
		return nil, xerrors.Errorf("splitter %q: %w", name, err)
	}
	return a, nil
}

// Names returns the sorted registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the registry used by the package level functions.
var Default = new(Registry)

// Register registers loader in the Default registry.
func Register(name string, loader Loader) { Default.Register(name, loader) }

// Load loads from the Default registry.
func Load(name string, source frame.Format, opts Options) (Algorithm, error) {
	return Default.Load(name, source, opts)
}

// Names lists the Default registry.
func Names() []string { return Default.Names() }
