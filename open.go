// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"context"
	"fmt"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/splitter"
	"github.com/fanout/vidsplit/window"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

// Open loads the configured splitter for frames of the source format and
// creates one window and display per splitter output.
//
// ctx bounds the construction only. If any output cannot be built,
// everything built so far is torn down and the error names the output.
func Open(ctx context.Context, cfg Config, source frame.Format) (_ *Coordinator, err error) {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(instrumentationName).Start(ctx, "vidsplit.Open",
		trace.WithAttributes(attribute.String("vidsplit.splitter", cfg.Splitter)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	switch {
	case cfg.Display.Windowed:
		return nil, ErrWindowed
	case cfg.Splitter == "":
		return nil, ErrNoSplitter
	case cfg.Windows == nil:
		return nil, ErrNoWindows
	}

	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	ins, err := newInstruments(mp)
	if err != nil {
		return nil, xerrors.Errorf("vidsplit: creating instruments: %w", err)
	}
	splitters := cfg.Splitters
	if splitters == nil {
		splitters = splitter.Default
	}
	displays := cfg.Displays
	if displays == nil {
		displays = display.Default
	}
	placement := cfg.Display.Placement
	if placement == (display.Placement{}) {
		placement = display.DefaultPlacement
	}

	// Splitting works on upright pictures only.
	format := source.Clone()
	format.Orientation = frame.OrientNormal

	alg, err := splitters.Load(cfg.Splitter, format, cfg.SplitterOptions)
	if err != nil {
		return nil, xerrors.Errorf("vidsplit: %w", err)
	}
	outs := alg.Outputs()
	if len(outs) == 0 {
		alg.Close()
		return nil, ErrNoOutputs
	}
	span.SetAttributes(attribute.Int("vidsplit.outputs", len(outs)))

	c := &Coordinator{
		log:      cfg.Logger.WithName("vidsplit").WithValues("splitter", cfg.Splitter),
		parent:   cfg.Parent,
		ins:      ins,
		format:   format,
		alg:      alg,
		pictures: make([]*frame.Frame, len(outs)),
		slots:    make([]*slot, len(outs)),
	}
	for i, out := range outs {
		if err := c.openOutput(ctx, i, out, cfg, displays, placement); err != nil {
			c.teardown()
			return nil, xerrors.Errorf("vidsplit: output %d: %w", i, err)
		}
	}
	c.log.Info("opened", "outputs", len(outs), "format", format.String())
	return c, nil
}

func (c *Coordinator) openOutput(ctx context.Context, i int, out splitter.Output, cfg Config, displays *display.Registry, placement display.Placement) error {
	s := newSlot(c, i)

	width, height := display.DefaultSize(out.Format, placement)
	win, err := cfg.Windows.NewWindow(window.Config{
		Width:     width,
		Height:    height,
		Title:     fmt.Sprintf("%s output %d", cfg.Splitter, i),
		Decorated: true,
	}, s)
	if err != nil {
		return xerrors.Errorf("creating window: %w", err)
	}
	if err := win.Enable(); err != nil {
		win.Release()
		return xerrors.Errorf("enabling window: %w", err)
	}
	s.window = win

	// Wait for a resize in flight, so that the display starts at the size
	// the window system settled on.
	if err := s.gate.Acquire(ctx, 1); err != nil {
		win.Disable()
		win.Release()
		return err
	}

	name := out.Backend
	if name == "" {
		name = cfg.DisplayBackend
	}
	d, err := newDisplay(displays, name, win, out.Format, display.Config{
		Placement: placement,
		Width:     s.width,
		Height:    s.height,
	})
	if err != nil {
		s.unlock()
		win.Disable()
		win.Release()
		return err
	}
	s.display = d
	s.publish()
	s.unlock()

	c.slots[i] = s
	c.constructed = i + 1
	s.log.V(1).Info("output ready", "backend", name, "width", width, "height", height)
	return nil
}

func newDisplay(displays *display.Registry, name string, win window.Window, f frame.Format, cfg display.Config) (display.Display, error) {
	b, err := displays.Lookup(name)
	if err != nil {
		return nil, err
	}
	d, err := b.NewDisplay(win, f, cfg)
	if err != nil {
		return nil, xerrors.Errorf("creating display %q: %w", name, err)
	}
	return d, nil
}

// Close destroys every output and unloads the splitter. Frames pending
// from a Prepare without Display are dropped. Close may be called more than
// once.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.teardown()
	c.log.Info("closed")
}

// teardown destroys the constructed slots in order, then the splitter.
func (c *Coordinator) teardown() {
	for i := 0; i < c.constructed; i++ {
		s := c.slots[i]
		if s.held {
			c.release(i)
			s.held = false
		} else {
			s.lock()
		}
		s.destroy()
	}
	c.constructed = 0
	c.alg.Close()
}
