// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/fanout/vidsplit"

// Stats is a snapshot of a Coordinator's activity.
type Stats struct {
	// Prepared counts frames split successfully; Dropped counts frames
	// the splitter failed on.
	Prepared, Dropped uint64

	// Presented counts sub-frames shown; Skipped counts sub-frames
	// discarded because their window had been closed.
	Presented, Skipped uint64

	// Resized and Closed count window events.
	Resized, Closed uint64

	Outputs []OutputStats
}

// OutputStats describes one output.
type OutputStats struct {
	Width, Height int

	// Live reports whether the output still has a display.
	Live bool
}

type counters struct {
	prepared, dropped  atomic.Uint64
	presented, skipped atomic.Uint64
	resized, closed    atomic.Uint64
}

var (
	framePrepared     = metric.WithAttributeSet(attribute.NewSet(attribute.String("result", "prepared")))
	frameDropped      = metric.WithAttributeSet(attribute.NewSet(attribute.String("result", "dropped")))
	subframePresented = metric.WithAttributeSet(attribute.NewSet(attribute.String("result", "presented")))
	subframeSkipped   = metric.WithAttributeSet(attribute.NewSet(attribute.String("result", "skipped")))
	eventResized      = metric.WithAttributeSet(attribute.NewSet(attribute.String("kind", "resized")))
	eventClosed       = metric.WithAttributeSet(attribute.NewSet(attribute.String("kind", "closed")))
	eventMouse        = metric.WithAttributeSet(attribute.NewSet(attribute.String("kind", "mouse")))
	eventKey          = metric.WithAttributeSet(attribute.NewSet(attribute.String("kind", "key")))
)

type instruments struct {
	frames    metric.Int64Counter
	subframes metric.Int64Counter
	events    metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	m := mp.Meter(instrumentationName)
	var ins instruments
	var err, errs error
	ins.frames, err = m.Int64Counter("vidsplit.frames",
		metric.WithDescription("Frames passed to Prepare, by result."),
		metric.WithUnit("{frame}"))
	errs = errors.Join(errs, err)
	ins.subframes, err = m.Int64Counter("vidsplit.subframes",
		metric.WithDescription("Sub-frames produced by the splitter, by result."),
		metric.WithUnit("{frame}"))
	errs = errors.Join(errs, err)
	ins.events, err = m.Int64Counter("vidsplit.window.events",
		metric.WithDescription("Events received from output windows, by kind."),
		metric.WithUnit("{event}"))
	errs = errors.Join(errs, err)
	if errs != nil {
		return nil, errs
	}
	return &ins, nil
}

func (ins *instruments) frame(result metric.MeasurementOption) {
	ins.frames.Add(context.Background(), 1, result)
}

func (ins *instruments) subframe(result metric.MeasurementOption) {
	ins.subframes.Add(context.Background(), 1, result)
}

func (ins *instruments) windowEvent(kind metric.MeasurementOption) {
	ins.events.Add(context.Background(), 1, kind)
}
