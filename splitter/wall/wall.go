// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wall implements a splitter that cuts the picture into a grid of
// tiles, one output per active tile, for a video wall made of several
// screens.
//
// It registers itself as "wall". Recognized options are "cols" and "rows"
// (default 3 each), "active", a comma separated list of tile indices in
// row-major order (default all), and "backend", the display backend for
// every output.
package wall

import (
	"errors"
	"image"

	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/splitter"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/xerrors"
)

func init() {
	splitter.Register("wall", load)
}

// Options configures a Wall.
type Options struct {
	Cols, Rows int

	// Active lists the tiles that produce an output. Nil means all tiles.
	Active []int

	Backend string
}

func load(source frame.Format, o splitter.Options) (splitter.Algorithm, error) {
	var opts Options
	var err error
	if opts.Cols, err = o.Int("cols", 3); err != nil {
		return nil, err
	}
	if opts.Rows, err = o.Int("rows", 3); err != nil {
		return nil, err
	}
	if opts.Active, err = o.Ints("active"); err != nil {
		return nil, err
	}
	opts.Backend = o.Get("backend", "")
	return New(source, opts)
}

var errNoImage = errors.New("wall: frame has no image")

type tile struct {
	// rect is in source buffer coordinates.
	rect image.Rectangle
}

// Wall is a grid splitter.
type Wall struct {
	tiles   []tile
	outputs []splitter.Output
}

// New returns a Wall splitting frames of the source format.
func New(source frame.Format, o Options) (*Wall, error) {
	if o.Cols < 1 || o.Rows < 1 {
		return nil, xerrors.Errorf("wall: invalid grid %dx%d", o.Cols, o.Rows)
	}
	vis := source.VisibleRect()
	if vis.Dx() < o.Cols || vis.Dy() < o.Rows {
		return nil, xerrors.Errorf("wall: %v too small for a %dx%d grid", vis, o.Cols, o.Rows)
	}
	active := o.Active
	if active == nil {
		for i := 0; i < o.Cols*o.Rows; i++ {
			active = append(active, i)
		}
	}

	w := &Wall{}
	seen := make(map[int]bool)
	for _, i := range active {
		if i < 0 || i >= o.Cols*o.Rows {
			return nil, xerrors.Errorf("wall: active tile %d out of range", i)
		}
		if seen[i] {
			return nil, xerrors.Errorf("wall: active tile %d listed twice", i)
		}
		seen[i] = true

		col, row := i%o.Cols, i/o.Cols
		r := image.Rect(
			vis.Min.X+col*vis.Dx()/o.Cols,
			vis.Min.Y+row*vis.Dy()/o.Rows,
			vis.Min.X+(col+1)*vis.Dx()/o.Cols,
			vis.Min.Y+(row+1)*vis.Dy()/o.Rows,
		)
		w.tiles = append(w.tiles, tile{rect: r})

		f := source.Clone()
		f.Width, f.Height = r.Dx(), r.Dy()
		f.Visible = image.Rect(0, 0, r.Dx(), r.Dy())
		w.outputs = append(w.outputs, splitter.Output{Format: f, Backend: o.Backend})
	}
	return w, nil
}

func (w *Wall) Outputs() []splitter.Output { return w.outputs }

func (w *Wall) Split(f *frame.Frame) ([]*frame.Frame, error) {
	defer f.Release()
	if f.Image == nil {
		return nil, errNoImage
	}
	b := f.Image.Bounds()
	subs := make([]*frame.Frame, len(w.tiles))
	for i, t := range w.tiles {
		r := t.rect.Add(b.Min)
		if !r.In(b) {
			for _, s := range subs[:i] {
				s.Release()
			}
			return nil, xerrors.Errorf("wall: tile %v outside of picture %v", r, b)
		}
		subs[i] = f.Derive(f.Image.SubImage(r).(*image.RGBA), w.outputs[i].Format)
	}
	return subs, nil
}

func (w *Wall) Mouse(index int, ev mouse.Event) (mouse.Event, bool) {
	if index < 0 || index >= len(w.tiles) {
		return ev, false
	}
	r := w.tiles[index].rect
	if ev.X < 0 || ev.Y < 0 || ev.X >= float32(r.Dx()) || ev.Y >= float32(r.Dy()) {
		return ev, false
	}
	ev.X += float32(r.Min.X)
	ev.Y += float32(r.Min.Y)
	return ev, true
}

func (w *Wall) Close() {}
