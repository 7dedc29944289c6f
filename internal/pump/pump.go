// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pump provides an infinitely buffered, serial callback queue.
package pump

import "sync"

// Make returns a new Pump. Call Release to stop it.
func Make() *Pump {
	p := &Pump{
		in:      make(chan func()),
		out:     make(chan func()),
		release: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	go p.exec()
	return p
}

// Pump runs the functions passed to Send one at a time, in order, on a
// goroutine of its own. Send always completes soon, even if a previously
// sent function is blocked.
//
// In particular, goroutine A calling p.Send will not deadlock even if a
// function sent earlier is waiting for A.
type Pump struct {
	in      chan func()
	out     chan func()
	release chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Send queues fn. Functions sent after Release are dropped.
func (p *Pump) Send(fn func()) {
	select {
	case p.in <- fn:
	case <-p.release:
	}
}

// Flush blocks until every function sent before it has run. It returns
// early if the pump is released.
func (p *Pump) Flush() {
	c := make(chan struct{})
	p.Send(func() { close(c) })
	select {
	case <-c:
	case <-p.done:
	}
}

// Release stops the pump. Pending functions may or may not run. Release
// waits for a function that is currently running to return.
func (p *Pump) Release() {
	p.once.Do(func() { close(p.release) })
	<-p.done
}

func (p *Pump) exec() {
	defer close(p.done)
	for {
		select {
		case fn := <-p.out:
			fn()
		case <-p.release:
			return
		}
	}
}

func (p *Pump) run() {
	// initialSize is the initial size of the circular buffer. It must be a
	// power of 2.
	const initialSize = 16
	i, j, buf, mask := 0, 0, make([]func(), initialSize), initialSize-1
	for {
		maybeOut := p.out
		if i == j {
			maybeOut = nil
		}
		select {
		case maybeOut <- buf[i&mask]:
			buf[i&mask] = nil
			i++
		case fn := <-p.in:
			// Allocate a bigger buffer if necessary.
			if i+len(buf) == j {
				b := make([]func(), 2*len(buf))
				n := copy(b, buf[j&mask:])
				copy(b[n:], buf[:j&mask])
				i, j = 0, len(buf)
				buf, mask = b, len(b)-1
			}
			buf[j&mask] = fn
			j++
		case <-p.release:
			return
		}
	}
}
