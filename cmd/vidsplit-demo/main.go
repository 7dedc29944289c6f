// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The vidsplit-demo command splits a moving test pattern across several
// windows.
//
// It opens a small parent window, which receives the input of every output
// window, and one window per output of the chosen splitter. Closing the
// parent window or pressing q or Escape in any window stops the demo.
//
// Example usage:
//
//	vidsplit-demo -splitter wall -o cols=2 -o rows=2
//
//	vidsplit-demo -config demo.toml -logger zerolog -v 2
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"
	"time"

	"github.com/fanout/vidsplit"
	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/internal/config"
	"github.com/fanout/vidsplit/shinydrv"
	_ "github.com/fanout/vidsplit/splitter/clone"
	_ "github.com/fanout/vidsplit/splitter/wall"
	"github.com/go-logr/logr"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, flush, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log = log.WithName("vidsplit-demo")

	driver.Main(func(s screen.Screen) {
		err = run(context.Background(), s, cfg, log)
	})
	if err != nil {
		log.Error(err, "demo failed")
	}
	flush()
	if err != nil {
		os.Exit(1)
	}
}

// quitEvent asks the parent window's event loop to return.
type quitEvent struct{}

func run(ctx context.Context, s screen.Screen, cfg config.File, log logr.Logger) error {
	mp, shutdown, err := newMeterProvider(cfg.Metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error(err, "shutting down metrics")
		}
	}()

	interp, err := shinydrv.Scaler(cfg.Display.Scaler)
	if err != nil {
		return err
	}
	display.Register("shiny", &shinydrv.Displays{Interpolator: interp})

	parent, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  320,
		Height: 180,
		Title:  "vidsplit",
	})
	if err != nil {
		return err
	}
	defer parent.Release()

	source := frame.Format{
		Chroma: "RGBA",
		Width:  cfg.Source.Width,
		Height: cfg.Source.Height,
		SARNum: 1,
		SARDen: 1,
	}
	c, err := vidsplit.Open(ctx, vidsplit.Config{
		Splitter:        cfg.Splitter,
		SplitterOptions: cfg.SplitterOptions(),
		Display:         vidsplit.DisplayConfig{Placement: cfg.Placement()},
		Windows:         &shinydrv.Backend{Screen: s, Log: log},
		DisplayBackend:  cfg.Display.Backend,
		Parent:          shinydrv.Parent{Window: parent},
		Logger:          log,
		MeterProvider:   mp,
	}, source)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer parent.Send(quitEvent{})
		return produce(ctx, c, cfg.Source)
	})
	g.Go(func() error {
		defer cancel()
		return handleParent(parent, log)
	})
	err = g.Wait()

	st := c.Stats()
	log.Info("done", "prepared", st.Prepared, "dropped", st.Dropped,
		"presented", st.Presented, "skipped", st.Skipped)
	return err
}

// handleParent runs the parent window's event loop.
func handleParent(w screen.Window, log logr.Logger) error {
	var sz size.Event
	for {
		switch e := w.NextEvent().(type) {
		case quitEvent:
			return nil
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case key.Event:
			if e.Direction == key.DirPress && (e.Code == key.CodeEscape || e.Rune == 'q') {
				return nil
			}
		case mouse.Event:
			if e.Direction != mouse.DirNone {
				log.V(1).Info("click", "x", e.X, "y", e.Y, "button", e.Button)
			}
		case size.Event:
			sz = e
		case paint.Event:
			w.Fill(sz.Bounds(), color.Gray{0x20}, draw.Src)
			w.Publish()
		case error:
			log.Error(e, "parent window")
		}
	}
}

// produce feeds test pattern frames to c at the configured rate.
func produce(ctx context.Context, c *vidsplit.Coordinator, src config.Source) error {
	format := c.Format()
	pool := sync.Pool{New: func() any {
		return image.NewRGBA(image.Rect(0, 0, format.Width, format.Height))
	}}
	tick := time.NewTicker(time.Duration(float64(time.Second) / src.Rate))
	defer tick.Stop()

	for n := 0; src.Frames == 0 || n < src.Frames; n++ {
		var now time.Time
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case now = <-tick.C:
		}
		img := pool.Get().(*image.RGBA)
		drawPattern(img, n)
		f := frame.New(img, format, func(f *frame.Frame) { pool.Put(f.Image) })
		f.Date = now
		c.Prepare(f, now)
		f.Release()
		c.Display()
	}
	return nil
}

var bars = []color.RGBA{
	{0xc0, 0xc0, 0xc0, 0xff},
	{0xc0, 0xc0, 0x00, 0xff},
	{0x00, 0xc0, 0xc0, 0xff},
	{0x00, 0xc0, 0x00, 0xff},
	{0xc0, 0x00, 0xc0, 0xff},
	{0xc0, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xc0, 0xff},
}

// drawPattern draws color bars with a white bar sweeping across them.
func drawPattern(img *image.RGBA, n int) {
	b := img.Bounds()
	w := b.Dx()
	for i, c := range bars {
		r := image.Rect(b.Min.X+i*w/len(bars), b.Min.Y, b.Min.X+(i+1)*w/len(bars), b.Max.Y)
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	x := b.Min.X + (n*4)%max(w, 1)
	draw.Draw(img, image.Rect(x, b.Min.Y, x+8, b.Max.Y).Intersect(b), image.White, image.Point{}, draw.Src)
}
