// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pump

import (
	"testing"
)

func TestOrder(t *testing.T) {
	p := Make()
	defer p.Release()

	// Block the executor so that Send has to buffer well past the initial
	// ring size.
	gate := make(chan struct{})
	p.Send(func() { <-gate })

	var got []int
	const n = 100
	for i := 0; i < n; i++ {
		i := i
		p.Send(func() { got = append(got, i) })
	}
	close(gate)
	p.Flush()

	if len(got) != n {
		t.Fatalf("ran %d functions, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d", i, v)
		}
	}
}

func TestSendAfterRelease(t *testing.T) {
	p := Make()
	p.Release()
	p.Release()
	p.Send(func() { t.Error("function ran after Release") })
	p.Flush()
}
