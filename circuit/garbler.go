//
// garbler.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"

	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/wire"
)

var (
	_ Backend = &Garbler{}
)

// Garbler implements the garbler Backend with free-XOR and
// half-gates AND gates. All labels are zero labels; the one labels
// are the zero labels XOR the session Delta.
type Garbler struct {
	conn  *p2p.Conn
	delta wire.Delta
	prg   *wire.PRG
	hash  *GateHash
	stats Stats
}

// NewGarbler creates a new garbler for the session Delta. The rand
// seeds the label generator and the gate hash. The hash seed is sent
// to the evaluator.
func NewGarbler(conn *p2p.Conn, delta wire.Delta, rand io.Reader) (
	*Garbler, error) {

	if !delta.S() {
		return nil, fmt.Errorf("delta %v is not odd", delta)
	}
	prg, err := wire.NewPRG(rand)
	if err != nil {
		return nil, err
	}
	seed, err := wire.NewLabel(rand)
	if err != nil {
		return nil, err
	}
	if err := conn.SendLabel(seed); err != nil {
		return nil, err
	}
	return &Garbler{
		conn:  conn,
		delta: delta,
		prg:   prg,
		hash:  NewGateHash(seed),
	}, nil
}

// Label returns a fresh random zero label.
func (g *Garbler) Label() wire.Label {
	return g.prg.Label()
}

// And implements Backend.And.
func (g *Garbler) And(a, b wire.Label) (wire.Label, error) {
	g.stats.And++

	pa := a.S()
	pb := b.S()

	ha, hb := g.hash.Garble(wire.NewPair(a, g.delta), wire.NewPair(b, g.delta))

	// Garbler half gate.
	tg := ha.L0.Xored(ha.L1)
	if pb {
		tg.Xor(g.delta.Label)
	}
	wg := ha.L0
	if pa {
		wg.Xor(tg)
	}

	// Evaluator half gate.
	te := hb.L0.Xored(hb.L1)
	te.Xor(a)
	we := hb.L0
	if pb {
		we.Xor(te)
		we.Xor(a)
	}

	if err := g.conn.SendLabel(tg); err != nil {
		return wire.Label{}, err
	}
	if err := g.conn.SendLabel(te); err != nil {
		return wire.Label{}, err
	}
	return wg.Xored(we), nil
}

// Xor implements Backend.Xor.
func (g *Garbler) Xor(a, b wire.Label) wire.Label {
	g.stats.Xor++
	return a.Xored(b)
}

// Not implements Backend.Not.
func (g *Garbler) Not(a wire.Label) wire.Label {
	g.stats.Not++
	return a.Xored(g.delta.Label)
}

// Input implements Backend.Input.
func (g *Garbler) Input(width int, value uint64) (wire.Word, error) {
	g.stats.Inputs += uint64(width)

	zero := make(wire.Word, width)
	for i := range zero {
		zero[i] = g.prg.Label()
	}
	if err := g.conn.SendWord(g.delta.EncodeWord(zero, value)); err != nil {
		return nil, err
	}
	return zero, nil
}

// Reveal implements Backend.Reveal. It sends the colour bits of the
// zero labels to the evaluator.
func (g *Garbler) Reveal(w wire.Word) (uint64, error) {
	bits := make([]byte, (len(w)+7)/8)
	for i, l := range w {
		if l.S() {
			bits[i/8] |= 1 << (i % 8)
		}
	}
	return 0, g.conn.SendData(bits)
}

// Flush implements Backend.Flush.
func (g *Garbler) Flush() error {
	return g.conn.Flush()
}

// Stats implements Backend.Stats.
func (g *Garbler) Stats() Stats {
	return g.stats
}
