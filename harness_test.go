// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/display/displaytest"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/splitter"
	"github.com/fanout/vidsplit/window/windowtest"
	"github.com/go-logr/logr/testr"
	"golang.org/x/mobile/event/mouse"
)

var errSplit = errors.New("split failed")

var testSource = frame.Format{Chroma: "RGBA", Width: 64, Height: 32}

// testSplitter gives every output the whole picture. Mouse events move
// right by 100 pixels per output index and are rejected at negative X.
type testSplitter struct {
	outs   []splitter.Output
	failOn map[int]bool // 1-based Split call numbers that fail
	extra  int          // sub-frames returned beyond the outputs
	calls  int
	closed atomic.Int32
}

func newTestSplitter(formats ...frame.Format) *testSplitter {
	s := &testSplitter{failOn: map[int]bool{}}
	for _, f := range formats {
		s.outs = append(s.outs, splitter.Output{Format: f})
	}
	return s
}

func (s *testSplitter) Outputs() []splitter.Output { return s.outs }

func (s *testSplitter) Split(f *frame.Frame) ([]*frame.Frame, error) {
	defer f.Release()
	s.calls++
	if s.failOn[s.calls] {
		return nil, errSplit
	}
	subs := make([]*frame.Frame, len(s.outs), len(s.outs)+s.extra)
	for i, o := range s.outs {
		subs[i] = f.Derive(f.Image, o.Format)
	}
	for i := 0; i < s.extra; i++ {
		subs = append(subs, f.Derive(f.Image, f.Format))
	}
	return subs, nil
}

func (s *testSplitter) Mouse(index int, ev mouse.Event) (mouse.Event, bool) {
	if ev.X < 0 {
		return ev, false
	}
	ev.X += float32(100 * index)
	return ev, true
}

func (s *testSplitter) Close() { s.closed.Add(1) }

type harness struct {
	t        *testing.T
	alg      *testSplitter
	windows  *windowtest.Backend
	displays *displaytest.Backend
	parent   *windowtest.Parent
	cfg      Config
	frees    atomic.Int32
}

// newHarness returns a harness whose splitter declares one output per
// format, or two outputs of the test source format if none are given.
func newHarness(t *testing.T, formats ...frame.Format) *harness {
	if len(formats) == 0 {
		formats = []frame.Format{testSource, testSource}
	}
	h := &harness{
		t:        t,
		alg:      newTestSplitter(formats...),
		windows:  &windowtest.Backend{},
		displays: &displaytest.Backend{},
		parent:   &windowtest.Parent{},
	}
	splitters := new(splitter.Registry)
	splitters.Register("test", func(frame.Format, splitter.Options) (splitter.Algorithm, error) {
		return h.alg, nil
	})
	displays := new(display.Registry)
	displays.Register("test", h.displays)
	h.cfg = Config{
		Splitter:       "test",
		Splitters:      splitters,
		Windows:        h.windows,
		DisplayBackend: "test",
		Displays:       displays,
		Parent:         h.parent,
		Logger:         testr.NewWithOptions(t, testr.Options{Verbosity: 2}),
	}
	return h
}

func (h *harness) open() *Coordinator {
	h.t.Helper()
	c, err := Open(context.Background(), h.cfg, testSource)
	if err != nil {
		h.t.Fatalf("Open: %v", err)
	}
	// Let the windows report their negotiated size.
	for _, w := range h.windows.Windows() {
		w.Sync()
	}
	return c
}

func (h *harness) frame() *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, testSource.Width, testSource.Height))
	return frame.New(img, testSource, func(*frame.Frame) { h.frees.Add(1) })
}

// cycle runs one Prepare/Display cycle and checks that the coordinator
// kept no reference on the frame.
func (h *harness) cycle(c *Coordinator) {
	h.t.Helper()
	f := h.frame()
	c.Prepare(f, time.Time{})
	c.Display()
	if n := f.Refs(); n != 1 {
		h.t.Errorf("frame holds %d references after Display, want 1", n)
	}
	f.Release()
}

// checkClean verifies that everything was released and that no display
// saw a contract violation.
func (h *harness) checkClean() {
	h.t.Helper()
	if n := h.windows.Live(); n != 0 {
		h.t.Errorf("%d windows not released", n)
	}
	if n := h.displays.Live(); n != 0 {
		h.t.Errorf("%d displays not released", n)
	}
	if v := h.displays.Violations(); len(v) != 0 {
		h.t.Errorf("display contract violations: %q", v)
	}
	if n := h.alg.closed.Load(); n != 1 {
		h.t.Errorf("splitter closed %d times, want 1", n)
	}
}

// within fails the test if fn does not return in time.
func within(t *testing.T, d time.Duration, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("%s did not complete within %v", what, d)
	}
}
