// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vidsplit

import (
	"sync"
	"time"

	"github.com/fanout/vidsplit/frame"
	"github.com/fanout/vidsplit/splitter"
	"github.com/fanout/vidsplit/window"
	"github.com/go-logr/logr"
	"golang.org/x/xerrors"
)

// Coordinator splits frames across output windows.
//
// Prepare, Display, Control and Close must be called from a single
// goroutine, the producer. Stats may be called from any goroutine.
type Coordinator struct {
	log    logr.Logger
	parent window.Parent
	ins    *instruments
	n      counters
	format frame.Format

	// mu serializes calls into alg: Split from the producer and Mouse from
	// the windows.
	mu  sync.Mutex
	alg splitter.Algorithm

	// pictures[i] is the frame prepared for slots[i], pending Display.
	pictures []*frame.Frame
	slots    []*slot

	// constructed counts the leading slots that are fully built.
	constructed int
	closed      bool
}

// Format returns the source format the coordinator works with. Its
// orientation is always frame.OrientNormal; the producer must rotate frames
// before passing them to Prepare.
func (c *Coordinator) Format() frame.Format {
	return c.format.Clone()
}

// Outputs returns the number of outputs.
func (c *Coordinator) Outputs() int {
	return len(c.slots)
}

// Prepare splits f and gets every sub-frame ready for Display. The caller
// keeps its reference on f.
//
// A frame the splitter fails on is dropped: the failure is logged and
// counted, and the next Display shows nothing. Outputs whose window has been
// closed are skipped.
func (c *Coordinator) Prepare(f *frame.Frame, date time.Time) {
	if c.closed {
		return
	}
	f.Hold()

	c.mu.Lock()
	subs, err := c.alg.Split(f)
	c.mu.Unlock()

	if err == nil && len(subs) > len(c.slots) {
		releaseAll(subs)
		err = xerrors.Errorf("splitter returned %d sub-frames for %d outputs", len(subs), len(c.slots))
	}
	if err != nil {
		c.discard()
		c.n.dropped.Add(1)
		c.ins.frame(frameDropped)
		c.log.Error(err, "dropping frame", "date", date)
		return
	}
	c.n.prepared.Add(1)
	c.ins.frame(framePrepared)

	for i, s := range c.slots {
		var sub *frame.Frame
		if i < len(subs) {
			sub = subs[i]
		}

		if s.held {
			// Prepare twice without Display: keep the gate, drop the
			// stale picture.
			c.release(i)
		} else {
			s.lock()
			s.held = true
		}

		switch {
		case sub == nil:
		case s.display == nil:
			sub.Release()
			c.n.skipped.Add(1)
			c.ins.subframe(subframeSkipped)
			s.log.V(2).Info("skipping output without display")
		default:
			c.pictures[i] = s.display.Prepare(sub, date)
		}
	}
}

// Display presents the sub-frames of the last Prepare, in output order, and
// lets window events through again.
func (c *Coordinator) Display() {
	for i, s := range c.slots {
		if p := c.pictures[i]; p != nil {
			c.pictures[i] = nil
			if s.display != nil {
				s.display.Present(p)
				c.n.presented.Add(1)
				c.ins.subframe(subframePresented)
			} else {
				c.n.skipped.Add(1)
				c.ins.subframe(subframeSkipped)
			}
			p.Release()
		}
		if s.held {
			s.held = false
			s.unlock()
		}
	}
}

// Control handles a request from the hosting pipeline. Source changes are
// accepted and ignored, as each output display places its own picture.
func (c *Coordinator) Control(q Query) error {
	switch q {
	case QuerySourceAspect, QuerySourceCrop, QuerySourcePlace:
		return nil
	}
	return xerrors.Errorf("%v: %w", q, ErrUnsupported)
}

// Stats returns a snapshot of the coordinator's counters and outputs.
func (c *Coordinator) Stats() Stats {
	st := Stats{
		Prepared:  c.n.prepared.Load(),
		Dropped:   c.n.dropped.Load(),
		Presented: c.n.presented.Load(),
		Skipped:   c.n.skipped.Load(),
		Resized:   c.n.resized.Load(),
		Closed:    c.n.closed.Load(),
		Outputs:   make([]OutputStats, len(c.slots)),
	}
	for i, s := range c.slots {
		if s != nil {
			st.Outputs[i] = *s.state.Load()
		}
	}
	return st
}

// release drops the pending picture of output i.
func (c *Coordinator) release(i int) {
	if p := c.pictures[i]; p != nil {
		c.pictures[i] = nil
		p.Release()
	}
}

// discard drops every pending picture and gives the gates back.
func (c *Coordinator) discard() {
	for i, s := range c.slots {
		c.release(i)
		if s.held {
			s.held = false
			s.unlock()
		}
	}
}

func releaseAll(fs []*frame.Frame) {
	for _, f := range fs {
		if f != nil {
			f.Release()
		}
	}
}
