// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shinydrv

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/window"
	"github.com/fanout/vidsplit/window/windowtest"
	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// fakeScreen implements the parts of screen.Screen used by the package.
type fakeScreen struct {
	screen.Screen

	mu      sync.Mutex
	opts    []screen.NewWindowOptions
	buffers []*fakeBuffer
}

func (s *fakeScreen) NewWindow(opts *screen.NewWindowOptions) (screen.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = append(s.opts, *opts)
	w := &fakeWindow{}
	w.cond = sync.NewCond(&w.mu)
	return w, nil
}

func (s *fakeScreen) NewBuffer(size image.Point) (screen.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &fakeBuffer{rgba: image.NewRGBA(image.Rectangle{Max: size})}
	s.buffers = append(s.buffers, b)
	return b, nil
}

type fakeBuffer struct {
	screen.Buffer
	rgba     *image.RGBA
	released bool
}

func (b *fakeBuffer) Release()                { b.released = true }
func (b *fakeBuffer) Size() image.Point       { return b.rgba.Rect.Size() }
func (b *fakeBuffer) Bounds() image.Rectangle { return b.rgba.Rect }
func (b *fakeBuffer) RGBA() *image.RGBA       { return b.rgba }

type fakeWindow struct {
	screen.Window

	mu        sync.Mutex
	cond      *sync.Cond
	events    []interface{}
	uploads   int
	publishes int
	released  bool
}

func (w *fakeWindow) Send(e interface{}) {
	w.mu.Lock()
	w.events = append(w.events, e)
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *fakeWindow) SendFirst(e interface{}) {
	w.mu.Lock()
	w.events = append([]interface{}{e}, w.events...)
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *fakeWindow) NextEvent() interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.events) == 0 {
		w.cond.Wait()
	}
	e := w.events[0]
	w.events = w.events[1:]
	return e
}

func (w *fakeWindow) Upload(dp image.Point, src screen.Buffer, sr image.Rectangle) {
	w.mu.Lock()
	w.uploads++
	w.mu.Unlock()
}

func (w *fakeWindow) Publish() screen.PublishResult {
	w.mu.Lock()
	w.publishes++
	w.mu.Unlock()
	return screen.PublishResult{}
}

func (w *fakeWindow) Release() {
	w.mu.Lock()
	w.released = true
	w.mu.Unlock()
}

// recorder is a window.Owner writing down what it is told.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	closed chan struct{}
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *recorder) Resized(w, h int, ack window.AckFunc) { r.add(fmt.Sprintf("resized %dx%d", w, h)) }
func (r *recorder) MouseEvent(ev mouse.Event)            { r.add(fmt.Sprintf("mouse %v", ev.X)) }
func (r *recorder) KeyboardEvent(ev key.Event)           { r.add(fmt.Sprintf("key %c", ev.Rune)) }

func (r *recorder) Closed() {
	r.add("closed")
	close(r.closed)
}

func TestWindow(t *testing.T) {
	s := &fakeScreen{}
	b := &Backend{Screen: s, Log: testr.New(t)}
	owner := &recorder{closed: make(chan struct{})}
	w, err := b.NewWindow(window.Config{Width: 64, Height: 32, Title: "wall output 0", Decorated: true}, owner)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]screen.NewWindowOptions{{Width: 64, Height: 32, Title: "wall output 0"}}, s.opts); diff != "" {
		t.Errorf("window options (-want +got):\n%s", diff)
	}

	if err := w.Enable(); err != nil {
		t.Fatal(err)
	}
	sw := w.(*Window).sw
	sw.Send(size.Event{WidthPx: 320, HeightPx: 240})
	sw.Send(paint.Event{})
	sw.Send(mouse.Event{X: 3})
	sw.Send(key.Event{Rune: 'q'})
	sw.Send(lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageDead})
	select {
	case <-owner.closed:
	case <-time.After(5 * time.Second):
		t.Fatal("close not reported")
	}
	w.Disable()
	w.Disable()

	want := []string{"resized 320x240", "mouse 3", "key q", "closed"}
	if diff := cmp.Diff(want, owner.calls); diff != "" {
		t.Errorf("owner calls (-want +got):\n%s", diff)
	}

	w.Release()
	w.Release()
	if !sw.(*fakeWindow).released {
		t.Errorf("screen window not released")
	}
	if err := w.Enable(); err == nil {
		t.Errorf("Enable of a released window succeeded")
	}
}

func TestParent(t *testing.T) {
	fw := &fakeWindow{}
	fw.cond = sync.NewCond(&fw.mu)
	p := Parent{Window: fw}
	p.SendMouseEvent(mouse.Event{X: 1})
	p.ReportKeyPress(key.Event{Rune: 'k'})
	if ev, ok := fw.NextEvent().(mouse.Event); !ok || ev.X != 1 {
		t.Errorf("first event = %v, want the mouse event", ev)
	}
	if ev, ok := fw.NextEvent().(key.Event); !ok || ev.Rune != 'k' {
		t.Errorf("second event = %v, want the key event", ev)
	}
}

var red = color.RGBA{0xff, 0, 0, 0xff}

func TestDisplay(t *testing.T) {
	s := &fakeScreen{}
	b := &Backend{Screen: s, Log: testr.New(t)}
	w, err := b.NewWindow(window.Config{Width: 8, Height: 8}, &recorder{})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	format := frame.Format{Chroma: "RGBA", Width: 4, Height: 2}
	ds := &Displays{Interpolator: draw.NearestNeighbor}
	d, err := ds.NewDisplay(w, format, display.Config{Placement: display.DefaultPlacement, Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	f := frame.New(img, format, nil)
	f.Hold()
	date := time.Unix(10, 0)
	p := d.Prepare(f, date)
	if n := f.Refs(); n != 1 {
		t.Errorf("Prepare left %d references on its input, want 1", n)
	}
	if p == nil {
		t.Fatal("Prepare returned nil")
	}
	if got := p.Image.Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Errorf("prepared bounds = %v, want 8x8", got)
	}
	if !p.Date.Equal(date) {
		t.Errorf("prepared date = %v, want %v", p.Date, date)
	}
	// A 2:1 picture fits an 8x8 window as an 8x4 band in the middle.
	for _, pt := range []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 0, 0xff}},
		{7, 1, color.RGBA{0, 0, 0, 0xff}},
		{0, 2, red},
		{7, 5, red},
		{3, 6, color.RGBA{0, 0, 0, 0xff}},
	} {
		if got := p.Image.RGBAAt(pt.x, pt.y); got != pt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", pt.x, pt.y, got, pt.want)
		}
	}

	d.Present(p)
	p.Release()
	fw := w.(*Window).sw.(*fakeWindow)
	if fw.uploads != 1 || fw.publishes != 1 {
		t.Errorf("%d uploads and %d publishes, want 1 and 1", fw.uploads, fw.publishes)
	}

	d.SetSize(16, 16)
	if !s.buffers[0].released {
		t.Errorf("buffer not released on resize")
	}
	p = d.Prepare(f, date)
	if got := p.Image.Bounds(); got != image.Rect(0, 0, 16, 16) {
		t.Errorf("prepared bounds after resize = %v, want 16x16", got)
	}
	p.Release()

	d.Release()
	if len(s.buffers) != 2 || !s.buffers[1].released {
		t.Errorf("buffer not released with the display")
	}
}

func TestDisplayNoImage(t *testing.T) {
	s := &fakeScreen{}
	b := &Backend{Screen: s, Log: testr.New(t)}
	w, err := b.NewWindow(window.Config{Width: 8, Height: 8}, &recorder{})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()

	format := frame.Format{Chroma: "RGBA", Width: 4, Height: 2}
	d, err := (&Displays{}).NewDisplay(w, format, display.Config{Placement: display.DefaultPlacement, Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Release()

	freed := false
	f := frame.New(nil, format, func(*frame.Frame) { freed = true })
	if p := d.Prepare(f, time.Time{}); p != nil {
		t.Errorf("Prepare of a frame without image = %v, want nil", p)
	}
	if !freed {
		t.Errorf("frame without image not released")
	}
	if len(s.buffers) != 0 {
		t.Errorf("%d buffers allocated for a frame without image", len(s.buffers))
	}
}

func TestDisplayForeignWindow(t *testing.T) {
	wb := &windowtest.Backend{}
	w, err := wb.NewWindow(window.Config{Width: 8, Height: 8}, &recorder{})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Release()
	if _, err := (&Displays{}).NewDisplay(w, frame.Format{Width: 1, Height: 1}, display.Config{}); err == nil {
		t.Errorf("NewDisplay accepted a window from another backend")
	}
}

func TestScaler(t *testing.T) {
	if s, err := Scaler(""); err != nil || s != draw.ApproxBiLinear {
		t.Errorf("Scaler(\"\") = %v, %v; want ApproxBiLinear", s, err)
	}
	if s, err := Scaler("catmullrom"); err != nil || s != draw.CatmullRom {
		t.Errorf("Scaler(catmullrom) = %v, %v", s, err)
	}
	if _, err := Scaler("cubic"); err == nil {
		t.Errorf("Scaler(cubic) succeeded")
	}
}
