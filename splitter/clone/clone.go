// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clone implements a splitter that shows the whole picture on
// every output.
//
// It registers itself as "clone". Recognized options are "count", the
// number of outputs (default 2), and "backends", a comma separated list of
// display backends; when given, it also sets the number of outputs.
package clone

import (
	"errors"

	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/splitter"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/xerrors"
)

func init() {
	splitter.Register("clone", load)
}

func load(source frame.Format, o splitter.Options) (splitter.Algorithm, error) {
	backends := o.List("backends")
	n, err := o.Int("count", len(backends))
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		n = 2
	case n < 0:
		return nil, xerrors.Errorf("clone: invalid count %d", n)
	}
	if len(backends) > 0 && len(backends) != n {
		return nil, xerrors.Errorf("clone: %d backends for %d outputs", len(backends), n)
	}
	return New(source, n, backends...), nil
}

// Clone duplicates frames.
type Clone struct {
	outputs []splitter.Output
}

// New returns a Clone with n outputs. backends, if given, names the display
// backend of each output.
func New(source frame.Format, n int, backends ...string) *Clone {
	c := &Clone{outputs: make([]splitter.Output, n)}
	for i := range c.outputs {
		c.outputs[i].Format = source.Clone()
		if i < len(backends) {
			c.outputs[i].Backend = backends[i]
		}
	}
	return c
}

func (c *Clone) Outputs() []splitter.Output { return c.outputs }

func (c *Clone) Split(f *frame.Frame) ([]*frame.Frame, error) {
	defer f.Release()
	if f.Image == nil {
		return nil, errors.New("clone: frame has no image")
	}
	subs := make([]*frame.Frame, len(c.outputs))
	for i := range subs {
		subs[i] = f.Derive(f.Image, f.Format)
	}
	return subs, nil
}

func (c *Clone) Mouse(index int, ev mouse.Event) (mouse.Event, bool) {
	return ev, index >= 0 && index < len(c.outputs)
}

func (c *Clone) Close() {}
