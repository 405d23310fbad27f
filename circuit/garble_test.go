//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/wire"
)

type gateResult struct {
	and wire.Word
	xor wire.Word
	not wire.Word
	eq  wire.Label
	mux wire.Word
	sx  wire.Word
	sy  wire.Word
}

// run evaluates the same gates on either backend.
func run(b Backend, x, y uint64, sel bool) (*gateResult, uint64, error) {
	const width = 64

	wx, err := b.Input(width, x)
	if err != nil {
		return nil, 0, err
	}
	wy, err := b.Input(width, y)
	if err != nil {
		return nil, 0, err
	}
	var s uint64
	if sel {
		s = 1
	}
	ws, err := b.Input(1, s)
	if err != nil {
		return nil, 0, err
	}

	r := &gateResult{
		and: make(wire.Word, width),
		xor: make(wire.Word, width),
		not: make(wire.Word, width),
	}
	for i := 0; i < width; i++ {
		r.and[i], err = b.And(wx[i], wy[i])
		if err != nil {
			return nil, 0, err
		}
		r.xor[i] = b.Xor(wx[i], wy[i])
		r.not[i] = b.Not(wx[i])
	}
	r.eq, err = Equal(b, wx, wx)
	if err != nil {
		return nil, 0, err
	}
	r.mux, err = Mux(b, ws[0], wx, wy)
	if err != nil {
		return nil, 0, err
	}
	r.sx = wx.Copy()
	r.sy = wy.Copy()
	if err := CondSwap(b, ws[0], r.sx, r.sy); err != nil {
		return nil, 0, err
	}
	revealed, err := b.Reveal(r.and)
	if err != nil {
		return nil, 0, err
	}
	return r, revealed, b.Flush()
}

func random64(t *testing.T) uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		t.Fatal(err)
	}
	return binary.BigEndian.Uint64(buf[:])
}

func TestGarbling(t *testing.T) {
	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		x := random64(t)
		y := random64(t)
		sel := i%2 == 1

		gc, ec := p2p.Pipe()

		type result struct {
			r   *gateResult
			err error
		}
		done := make(chan result)
		go func() {
			g, err := NewGarbler(gc, delta, rand.Reader)
			if err != nil {
				done <- result{err: err}
				return
			}
			r, _, err := run(g, x, y, sel)
			done <- result{r: r, err: err}
		}()

		e, err := NewEvaluator(ec)
		if err != nil {
			t.Fatal(err)
		}
		er, revealed, err := run(e, 0, 0, false)
		if err != nil {
			t.Fatal(err)
		}
		gr := <-done
		if gr.err != nil {
			t.Fatal(gr.err)
		}

		check := func(name string, zero, active wire.Word, value uint64) {
			if !delta.EncodeWord(zero, value).Equal(active) {
				got, err := delta.DecodeWord(zero, active)
				t.Errorf("%s: got %x (%v), expected %x", name, got, err, value)
			}
		}
		check("AND", gr.r.and, er.and, x&y)
		check("XOR", gr.r.xor, er.xor, x^y)
		check("NOT", gr.r.not, er.not, ^x)
		check("EQ", wire.Word{gr.r.eq}, wire.Word{er.eq}, 1)
		if sel {
			check("MUX", gr.r.mux, er.mux, y)
			check("SWAP-X", gr.r.sx, er.sx, y)
			check("SWAP-Y", gr.r.sy, er.sy, x)
		} else {
			check("MUX", gr.r.mux, er.mux, x)
			check("SWAP-X", gr.r.sx, er.sx, x)
			check("SWAP-Y", gr.r.sy, er.sy, y)
		}
		if revealed != x&y {
			t.Errorf("Reveal: got %x, expected %x", revealed, x&y)
		}

		gc.Close()
		ec.Close()
	}
}

func TestGarblerOddDelta(t *testing.T) {
	gc, ec := p2p.Pipe()
	defer gc.Close()
	defer ec.Close()

	var delta wire.Delta
	if _, err := NewGarbler(gc, delta, rand.Reader); err == nil {
		t.Errorf("NewGarbler accepted even delta")
	}
}

func BenchmarkGarbleAnd(b *testing.B) {
	gc, ec := p2p.Pipe()
	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		b.Fatal(err)
	}
	go func() {
		e, err := NewEvaluator(ec)
		if err != nil {
			return
		}
		var l wire.Label
		for {
			if _, err := e.And(l, l); err != nil {
				return
			}
		}
	}()
	g, err := NewGarbler(gc, delta, rand.Reader)
	if err != nil {
		b.Fatal(err)
	}
	l := g.Label()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.And(l, l); err != nil {
			b.Fatal(err)
		}
	}
	gc.Close()
}
