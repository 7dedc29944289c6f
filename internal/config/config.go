// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the configuration of the vidsplit-demo command from
// a TOML file and command line flags.
package config

import (
	"flag"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fanout/vidsplit/display"
	"github.com/fanout/vidsplit/splitter"
	"golang.org/x/xerrors"
)

// File is the demo configuration. Its zero value is not valid; start from
// Default.
type File struct {
	Splitter string            `toml:"splitter"`
	Options  map[string]string `toml:"options"`
	Display  Display           `toml:"display"`
	Source   Source            `toml:"source"`
	Log      Log               `toml:"log"`
	Metrics  Metrics           `toml:"metrics"`
}

// Display configures the output windows.
type Display struct {
	Backend string `toml:"backend"`
	Scaler  string `toml:"scaler"`

	// Width and Height force the window size.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Zoom scales the default window size, as "num/den" or "num".
	Zoom string `toml:"zoom"`

	// Fit is one of "smaller", "larger", "width" or "height".
	Fit string `toml:"fit"`

	// NoFill keeps pictures at most at their native size.
	NoFill bool `toml:"no_fill"`
}

// Source configures the test pattern fed to the outputs.
type Source struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Rate   float64 `toml:"rate"`

	// Frames stops the demo after that many frames. Zero runs until the
	// parent window is closed.
	Frames int `toml:"frames"`
}

// Log selects the logging backend.
type Log struct {
	// Backend is one of "zap", "zerolog" or "logrus".
	Backend   string `toml:"backend"`
	Verbosity int    `toml:"verbosity"`
}

// Metrics configures the stdout metric exporter.
type Metrics struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
}

// Default returns the configuration used when nothing is specified.
func Default() File {
	return File{
		Splitter: "wall",
		Options:  map[string]string{},
		Display: Display{
			Backend: "shiny",
			Scaler:  "approx",
			Zoom:    "1",
			Fit:     "smaller",
		},
		Source: Source{Width: 640, Height: 360, Rate: 25},
		Log:    Log{Backend: "zap"},
		Metrics: Metrics{
			Interval: 10 * time.Second,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. Keys that do not
// belong to File are an error.
func Load(path string) (File, error) {
	f := Default()
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, xerrors.Errorf("config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return File{}, xerrors.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if f.Options == nil {
		f.Options = map[string]string{}
	}
	return f, nil
}

// Parse parses the command line arguments with fs. The file named by the
// -config flag is loaded first; flags set explicitly override it.
func Parse(fs *flag.FlagSet, args []string) (File, error) {
	path := fs.String("config", "", "read the configuration from this TOML `file`")
	over := Default()
	fs.StringVar(&over.Splitter, "splitter", over.Splitter, "splitter `name`")
	fs.StringVar(&over.Display.Backend, "display", over.Display.Backend, "display backend `name`")
	fs.StringVar(&over.Display.Scaler, "scaler", over.Display.Scaler, "scaling `method`: nearest, approx, bilinear or catmullrom")
	fs.StringVar(&over.Display.Zoom, "zoom", over.Display.Zoom, "zoom `factor`, as num/den")
	fs.StringVar(&over.Display.Fit, "fit", over.Display.Fit, "picture fit: smaller, larger, width or height")
	fs.IntVar(&over.Source.Width, "width", over.Source.Width, "source width in pixels")
	fs.IntVar(&over.Source.Height, "height", over.Source.Height, "source height in pixels")
	fs.Float64Var(&over.Source.Rate, "rate", over.Source.Rate, "frames per second")
	fs.IntVar(&over.Source.Frames, "frames", over.Source.Frames, "stop after `n` frames (0 runs until closed)")
	fs.StringVar(&over.Log.Backend, "logger", over.Log.Backend, "logging backend: zap, zerolog or logrus")
	fs.IntVar(&over.Log.Verbosity, "v", over.Log.Verbosity, "log verbosity")
	fs.BoolVar(&over.Metrics.Enabled, "metrics", over.Metrics.Enabled, "print metrics to stdout")
	fs.Func("o", "splitter option as `key=value`; may be repeated", func(s string) error {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return xerrors.Errorf("want key=value, got %q", s)
		}
		over.Options[k] = v
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return File{}, err
	}

	f := Default()
	if *path != "" {
		var err error
		if f, err = Load(*path); err != nil {
			return File{}, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "splitter":
			f.Splitter = over.Splitter
		case "display":
			f.Display.Backend = over.Display.Backend
		case "scaler":
			f.Display.Scaler = over.Display.Scaler
		case "zoom":
			f.Display.Zoom = over.Display.Zoom
		case "fit":
			f.Display.Fit = over.Display.Fit
		case "width":
			f.Source.Width = over.Source.Width
		case "height":
			f.Source.Height = over.Source.Height
		case "rate":
			f.Source.Rate = over.Source.Rate
		case "frames":
			f.Source.Frames = over.Source.Frames
		case "logger":
			f.Log.Backend = over.Log.Backend
		case "v":
			f.Log.Verbosity = over.Log.Verbosity
		case "metrics":
			f.Metrics.Enabled = over.Metrics.Enabled
		case "o":
			for k, v := range over.Options {
				f.Options[k] = v
			}
		}
	})
	return f, f.Validate()
}

var fits = map[string]display.Fit{
	"smaller": display.FitSmaller,
	"larger":  display.FitLarger,
	"width":   display.FitWidth,
	"height":  display.FitHeight,
}

var loggers = map[string]bool{"zap": true, "zerolog": true, "logrus": true}

// Validate reports the first problem found in f.
func (f *File) Validate() error {
	if f.Splitter == "" {
		return xerrors.New("config: no splitter")
	}
	if _, ok := fits[f.Display.Fit]; !ok {
		return xerrors.Errorf("config: unknown fit %q", f.Display.Fit)
	}
	if _, _, err := parseZoom(f.Display.Zoom); err != nil {
		return err
	}
	if f.Display.Width < 0 || f.Display.Height < 0 {
		return xerrors.Errorf("config: negative display size %dx%d", f.Display.Width, f.Display.Height)
	}
	if f.Source.Width <= 0 || f.Source.Height <= 0 {
		return xerrors.Errorf("config: invalid source size %dx%d", f.Source.Width, f.Source.Height)
	}
	if f.Source.Rate <= 0 {
		return xerrors.Errorf("config: invalid frame rate %v", f.Source.Rate)
	}
	if f.Source.Frames < 0 {
		return xerrors.Errorf("config: negative frame count %d", f.Source.Frames)
	}
	if !loggers[f.Log.Backend] {
		names := make([]string, 0, len(loggers))
		for name := range loggers {
			names = append(names, name)
		}
		sort.Strings(names)
		return xerrors.Errorf("config: logger %q is not one of %s", f.Log.Backend, strings.Join(names, ", "))
	}
	if f.Metrics.Enabled && f.Metrics.Interval <= 0 {
		return xerrors.Errorf("config: invalid metrics interval %v", f.Metrics.Interval)
	}
	return nil
}

func parseZoom(s string) (num, den int, err error) {
	n, d, ok := strings.Cut(s, "/")
	if !ok {
		d = "1"
	}
	num, err1 := strconv.Atoi(n)
	den, err2 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
		return 0, 0, xerrors.Errorf("config: invalid zoom %q", s)
	}
	return num, den, nil
}

// Placement returns the display placement f describes. f must be valid.
func (f *File) Placement() display.Placement {
	p := display.DefaultPlacement
	p.Width, p.Height = f.Display.Width, f.Display.Height
	p.Fit = fits[f.Display.Fit]
	p.ZoomNum, p.ZoomDen, _ = parseZoom(f.Display.Zoom)
	p.FullFill = !f.Display.NoFill
	return p
}

// SplitterOptions returns the options passed to the splitter.
func (f *File) SplitterOptions() splitter.Options {
	opts := make(splitter.Options, len(f.Options))
	for k, v := range f.Options {
		opts[k] = v
	}
	return opts
}
