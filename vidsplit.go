// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vidsplit fans one video output out to several windows.
//
// A Coordinator receives one frame at a time from a single producer
// goroutine, splits it with a splitter.Algorithm and renders each sub-frame
// on a display of its own, each living in a window of its own:
//
//	c, err := vidsplit.Open(ctx, vidsplit.Config{
//		Splitter:       "wall",
//		Windows:        backend,
//		DisplayBackend: "shiny",
//	}, source)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	for f := range frames {
//		c.Prepare(f, f.Date)
//		f.Release()
//		c.Display()
//	}
//
// The windows report resizes, closes and input on goroutines owned by the
// window backend, concurrently with the producer. Each output is guarded by
// a gate that the producer holds from Prepare to Display, so a display is
// never resized or destroyed while it renders a frame. A closed window
// simply stops receiving frames.
package vidsplit

import (
	"errors"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/splitter"
	"github.com/fanout/vidsplit/window"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrWindowed is returned by Open when the display is embedded in a
	// windowed composition, where splitting does not apply.
	ErrWindowed = errors.New("vidsplit: windowed display cannot be split")

	// ErrNoSplitter is returned by Open when no splitter is configured.
	ErrNoSplitter = errors.New("vidsplit: no splitter configured")

	// ErrNoOutputs is returned by Open when the splitter declares no
	// outputs.
	ErrNoOutputs = errors.New("vidsplit: splitter declares no outputs")

	// ErrUnsupported is returned by Control for queries it does not handle.
	ErrUnsupported = errors.New("vidsplit: unsupported control query")

	// ErrNoWindows is returned by Open when no window backend is set.
	ErrNoWindows = errors.New("vidsplit: no window backend")
)

// Config configures a Coordinator.
type Config struct {
	// Splitter names the splitter algorithm. It is required.
	Splitter string

	// SplitterOptions is passed to the splitter loader.
	SplitterOptions splitter.Options

	// Splitters is the registry Splitter is looked up in. Nil means
	// splitter.Default.
	Splitters *splitter.Registry

	// Display is the configuration of the display being split.
	Display DisplayConfig

	// Windows creates the output windows. It is required.
	Windows window.Backend

	// DisplayBackend names the display backend for outputs that do not
	// name one themselves.
	DisplayBackend string

	// Displays is the registry display backends are looked up in. Nil
	// means display.Default.
	Displays *display.Registry

	// Parent receives the input events of the output windows. It may be
	// nil.
	Parent window.Parent

	// Logger defaults to discarding everything.
	Logger logr.Logger

	// MeterProvider and TracerProvider default to the global providers.
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// DisplayConfig describes the display the coordinator stands in for.
type DisplayConfig struct {
	// Windowed is set when the display is one element of a composed
	// window rather than in charge of its own placement.
	Windowed bool

	display.Placement
}

// Query is a control request from the hosting pipeline.
type Query int

const (
	QuerySourceAspect Query = iota
	QuerySourceCrop
	QuerySourcePlace
	QueryDisplaySize
	QueryDisplayFilled
	QueryZoom
	QueryViewpoint
)

func (q Query) String() string {
	switch q {
	case QuerySourceAspect:
		return "source-aspect"
	case QuerySourceCrop:
		return "source-crop"
	case QuerySourcePlace:
		return "source-place"
	case QueryDisplaySize:
		return "display-size"
	case QueryDisplayFilled:
		return "display-filled"
	case QueryZoom:
		return "zoom"
	case QueryViewpoint:
		return "viewpoint"
	}
	return "unknown"
}
