// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shinydrv

import (
	"image"
	"time"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/window"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/xerrors"
)

// Scalers maps the names accepted by Scaler to interpolators.
var Scalers = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"approx":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

// Scaler returns the interpolator called name. The empty name selects
// "approx".
func Scaler(name string) (draw.Interpolator, error) {
	if name == "" {
		name = "approx"
	}
	s, ok := Scalers[name]
	if !ok {
		return nil, xerrors.Errorf("shinydrv: unknown scaler %q", name)
	}
	return s, nil
}

// Displays is a display.Backend drawing into windows created by Backend.
type Displays struct {
	// Interpolator scales pictures to the window size. Nil means
	// draw.ApproxBiLinear.
	Interpolator draw.Interpolator
}

// NewDisplay implements display.Backend.
func (ds *Displays) NewDisplay(w window.Window, f frame.Format, cfg display.Config) (display.Display, error) {
	win, ok := w.(*Window)
	if !ok {
		return nil, xerrors.Errorf("shinydrv: cannot draw into a %T", w)
	}
	interp := ds.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	return &Display{
		win:    win,
		format: f,
		place:  cfg.Placement,
		interp: interp,
		width:  max(cfg.Width, 1),
		height: max(cfg.Height, 1),
	}, nil
}

// Display renders frames through a screen buffer the size of its window.
type Display struct {
	win    *Window
	format frame.Format
	place  display.Placement
	interp draw.Interpolator

	width, height int
	buf           screen.Buffer
}

func (d *Display) SetSize(width, height int) {
	d.width, d.height = max(width, 1), max(height, 1)
	if d.buf != nil && d.buf.Size() != image.Pt(d.width, d.height) {
		d.buf.Release()
		d.buf = nil
	}
}

// Prepare draws f, letterboxed, into the display's buffer and returns a
// frame of the buffer.
func (d *Display) Prepare(f *frame.Frame, date time.Time) *frame.Frame {
	defer f.Release()
	if f.Image == nil {
		return nil
	}
	if d.buf == nil {
		buf, err := d.win.screen.NewBuffer(image.Pt(d.width, d.height))
		if err != nil {
			d.win.log.Error(err, "allocating buffer", "width", d.width, "height", d.height)
			return nil
		}
		d.buf = buf
	}
	dst := d.buf.RGBA()
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	dr := display.Place(f.Format, d.width, d.height, d.place)
	sr := f.Format.VisibleRect().Add(f.Image.Bounds().Min)
	d.interp.Scale(dst, dr.Add(dst.Bounds().Min), f.Image, sr, draw.Src, nil)

	out := frame.New(dst, frame.Format{
		Chroma: "RGBA",
		Width:  d.width,
		Height: d.height,
	}, nil)
	out.Date = date
	return out
}

// Present uploads the buffer p was drawn into and shows it.
func (d *Display) Present(p *frame.Frame) {
	if d.buf == nil || p.Image != d.buf.RGBA() {
		return
	}
	d.win.sw.Upload(image.Point{}, d.buf, d.buf.Bounds())
	d.win.sw.Publish()
}

func (d *Display) Release() {
	if d.buf != nil {
		d.buf.Release()
		d.buf = nil
	}
}
