// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

func TestReleaseHook(t *testing.T) {
	released := 0
	f := New(image.NewRGBA(image.Rect(0, 0, 4, 4)), Format{Width: 4, Height: 4}, func(*Frame) { released++ })
	f.Hold()
	f.Release()
	if released != 0 {
		t.Fatalf("hook ran with a reference outstanding")
	}
	f.Release()
	if released != 1 {
		t.Fatalf("hook ran %d times, want 1", released)
	}
}

func TestOverRelease(t *testing.T) {
	f := New(nil, Format{}, nil)
	f.Release()
	defer func() {
		if recover() == nil {
			t.Error("second Release did not panic")
		}
	}()
	f.Release()
}

func TestConcurrentHoldRelease(t *testing.T) {
	done := make(chan struct{})
	f := New(nil, Format{}, func(*Frame) { close(done) })
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		f.Hold()
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Release()
		}()
	}
	wg.Wait()
	if got := f.Refs(); got != 1 {
		t.Fatalf("Refs = %d, want 1", got)
	}
	f.Release()
	<-done
}

func TestDerive(t *testing.T) {
	parentDone := false
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	p := New(img, Format{Width: 8, Height: 8}, func(*Frame) { parentDone = true })
	p.Date = time.Unix(10, 0)
	sub := img.SubImage(image.Rect(4, 0, 8, 4)).(*image.RGBA)
	d := p.Derive(sub, Format{Width: 4, Height: 4})
	if !d.Date.Equal(p.Date) {
		t.Errorf("derived date = %v, want %v", d.Date, p.Date)
	}
	p.Release()
	if parentDone {
		t.Fatal("parent released while derived frame alive")
	}
	d.Release()
	if !parentDone {
		t.Fatal("parent not released after derived frame")
	}
}

func TestFormat(t *testing.T) {
	f := Format{Width: 640, Height: 480, Palette: color.Palette{color.Black}}
	if got, want := f.VisibleRect(), image.Rect(0, 0, 640, 480); got != want {
		t.Errorf("VisibleRect = %v, want %v", got, want)
	}
	if n, d := f.SAR(); n != 1 || d != 1 {
		t.Errorf("SAR = %d:%d, want 1:1", n, d)
	}
	c := f.Clone()
	c.Palette[0] = color.White
	if f.Palette[0] != color.Black {
		t.Error("Clone shares the palette")
	}
	if got := OrientRotated90.String(); got != "rotate90" {
		t.Errorf("String = %q", got)
	}
}
