// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"image"

	"github.com/fanout/vidsplit/frame"
)

// Fit selects how a picture is scaled into a rendering area.
type Fit int

const (
	// FitSmaller scales the picture to fit entirely inside the area.
	FitSmaller Fit = iota
	// FitLarger scales the picture to cover the whole area.
	FitLarger
	// FitWidth matches the area width.
	FitWidth
	// FitHeight matches the area height.
	FitHeight
)

// Placement is the display configuration shared by all the outputs: how
// pictures are sized and placed.
type Placement struct {
	// Width and Height force the display size. Zero values derive it from
	// the source.
	Width, Height int

	// SARNum and SARDen give the sample aspect ratio of the display.
	SARNum, SARDen int

	Fit Fit

	// ZoomNum and ZoomDen scale the default size.
	ZoomNum, ZoomDen int

	// FullFill lets the picture grow beyond its native size.
	FullFill bool
}

// DefaultPlacement is the placement used for split outputs: native size,
// square pixels, fit inside, filling the window.
var DefaultPlacement = Placement{
	SARNum:   1,
	SARDen:   1,
	Fit:      FitSmaller,
	ZoomNum:  1,
	ZoomDen:  1,
	FullFill: true,
}

func ratio(num, den int) (int, int) {
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	return num, den
}

// DefaultSize returns the size a window should request to show pictures of
// format f under placement p.
func DefaultSize(f frame.Format, p Placement) (width, height int) {
	vis := f.VisibleRect()
	if vis.Empty() {
		return 1, 1
	}
	sarNum, sarDen := f.SAR()
	zoomNum, zoomDen := ratio(p.ZoomNum, p.ZoomDen)
	dispNum, dispDen := ratio(p.SARNum, p.SARDen)

	switch {
	case p.Width > 0 && p.Height > 0:
		return p.Width, p.Height
	case p.Width > 0:
		return p.Width, max(1, p.Width*vis.Dy()*sarDen*dispNum/(vis.Dx()*sarNum*dispDen))
	case p.Height > 0:
		return max(1, p.Height*vis.Dx()*sarNum*dispDen/(vis.Dy()*sarDen*dispNum)), p.Height
	}

	if sarNum >= sarDen {
		width = vis.Dx() * sarNum * zoomNum / (sarDen * zoomDen)
		height = vis.Dy() * zoomNum / zoomDen
	} else {
		width = vis.Dx() * zoomNum / zoomDen
		height = vis.Dy() * sarDen * zoomNum / (sarNum * zoomDen)
	}
	width = width * dispDen / dispNum
	return max(1, width), max(1, height)
}

// Place returns where a picture of format f lands inside an area of the
// given size.
func Place(f frame.Format, width, height int, p Placement) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	vis := f.VisibleRect()
	sarNum, sarDen := f.SAR()
	dispNum, dispDen := ratio(p.SARNum, p.SARDen)

	// Picture size in display pixels.
	pw := vis.Dx() * sarNum * dispDen / (sarDen * dispNum)
	ph := vis.Dy()
	if pw <= 0 || ph <= 0 {
		return image.Rectangle{}
	}

	var w, h int
	switch p.Fit {
	case FitWidth:
		w, h = width, ph*width/pw
	case FitHeight:
		w, h = pw*height/ph, height
	case FitLarger:
		if pw*height > ph*width {
			w, h = pw*height/ph, height
		} else {
			w, h = width, ph*width/pw
		}
	default:
		if pw*height > ph*width {
			w, h = width, ph*width/pw
		} else {
			w, h = pw*height/ph, height
		}
	}
	if !p.FullFill && (w > pw || h > ph) {
		w, h = pw, ph
	}
	x, y := (width-w)/2, (height-h)/2
	return image.Rect(x, y, x+w, y+h)
}
