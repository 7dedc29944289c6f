// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"image"
	"image/color"
)

// Orientation describes how the stored pixels must be transformed to be
// shown upright.
type Orientation int

const (
	OrientNormal Orientation = iota
	OrientHFlipped
	OrientVFlipped
	OrientRotated180
	OrientTransposed
	OrientAntiTransposed
	OrientRotated90
	OrientRotated270
)

var orientationNames = [...]string{
	OrientNormal:         "normal",
	OrientHFlipped:       "hflip",
	OrientVFlipped:       "vflip",
	OrientRotated180:     "rotate180",
	OrientTransposed:     "transpose",
	OrientAntiTransposed: "antitranspose",
	OrientRotated90:      "rotate90",
	OrientRotated270:     "rotate270",
}

func (o Orientation) String() string {
	if o >= 0 && int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Format describes the geometry and pixel layout of a frame.
type Format struct {
	// Chroma names the pixel layout, such as "RGBA".
	Chroma string

	// Width and Height are the dimensions of the whole buffer.
	Width, Height int

	// Visible is the displayable part of the buffer, relative to the
	// origin of the image bounds. An empty rectangle means the whole
	// buffer is visible.
	Visible image.Rectangle

	// SARNum and SARDen give the sample aspect ratio. A zero value means
	// square pixels.
	SARNum, SARDen int

	Orientation Orientation

	// Palette is only used by paletted chromas.
	Palette color.Palette
}

// VisibleRect returns the visible rectangle, defaulting to the whole buffer.
func (f *Format) VisibleRect() image.Rectangle {
	if f.Visible.Empty() {
		return image.Rect(0, 0, f.Width, f.Height)
	}
	return f.Visible
}

// SAR returns the sample aspect ratio with zero values normalized to 1:1.
func (f *Format) SAR() (num, den int) {
	if f.SARNum <= 0 || f.SARDen <= 0 {
		return 1, 1
	}
	return f.SARNum, f.SARDen
}

// Clone returns a copy of f that shares no memory with it.
func (f Format) Clone() Format {
	if f.Palette != nil {
		f.Palette = append(color.Palette(nil), f.Palette...)
	}
	return f
}

func (f Format) String() string {
	num, den := f.SAR()
	return fmt.Sprintf("%s %dx%d visible=%v sar=%d:%d %v",
		f.Chroma, f.Width, f.Height, f.VisibleRect(), num, den, f.Orientation)
}
