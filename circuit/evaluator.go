//
// evaluator.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/wire"
)

var (
	_ Backend = &Evaluator{}
)

// Evaluator implements the evaluator Backend. It holds only the
// active labels of the wires.
type Evaluator struct {
	conn  *p2p.Conn
	hash  *GateHash
	stats Stats
}

// NewEvaluator creates a new evaluator. It receives the gate hash
// seed from the garbler.
func NewEvaluator(conn *p2p.Conn) (*Evaluator, error) {
	var seed wire.Label
	if err := conn.ReceiveLabel(&seed); err != nil {
		return nil, err
	}
	return &Evaluator{
		conn: conn,
		hash: NewGateHash(seed),
	}, nil
}

// And implements Backend.And.
func (e *Evaluator) And(a, b wire.Label) (wire.Label, error) {
	e.stats.And++

	var tg, te wire.Label
	if err := e.conn.ReceiveLabel(&tg); err != nil {
		return wire.Label{}, err
	}
	if err := e.conn.ReceiveLabel(&te); err != nil {
		return wire.Label{}, err
	}

	ha, hb := e.hash.Eval(a, b)

	wg := ha
	if a.S() {
		wg.Xor(tg)
	}
	we := hb
	if b.S() {
		we.Xor(te)
		we.Xor(a)
	}
	return wg.Xored(we), nil
}

// Xor implements Backend.Xor.
func (e *Evaluator) Xor(a, b wire.Label) wire.Label {
	e.stats.Xor++
	return a.Xored(b)
}

// Not implements Backend.Not. The garbler flips the label semantics
// so the evaluator's label is unchanged.
func (e *Evaluator) Not(a wire.Label) wire.Label {
	e.stats.Not++
	return a
}

// Input implements Backend.Input.
func (e *Evaluator) Input(width int, value uint64) (wire.Word, error) {
	e.stats.Inputs += uint64(width)

	result := make(wire.Word, width)
	if err := e.conn.ReceiveWord(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Reveal implements Backend.Reveal.
func (e *Evaluator) Reveal(w wire.Word) (uint64, error) {
	bits, err := e.conn.ReceiveData()
	if err != nil {
		return 0, err
	}
	if len(bits) != (len(w)+7)/8 {
		return 0, fmt.Errorf("reveal: got %d bytes for %d bits",
			len(bits), len(w))
	}
	var result uint64
	for i, l := range w {
		bit := (bits[i/8] >> (i % 8)) & 1
		if l.S() {
			bit ^= 1
		}
		if i < 64 {
			result |= uint64(bit) << i
		}
	}
	return result, nil
}

// Flush implements Backend.Flush.
func (e *Evaluator) Flush() error {
	return e.conn.Flush()
}

// Stats implements Backend.Stats.
func (e *Evaluator) Stats() Stats {
	return e.stats
}
