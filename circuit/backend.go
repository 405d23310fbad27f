//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements streaming half-gates garbling and the
// Boolean gadgets the ORAM is built from. The same gadget code runs
// on the garbler, on the evaluator, and on cleartext bits; only the
// Backend differs.
package circuit

import (
	"fmt"

	"github.com/markkurossi/picogram/wire"
)

// Backend evaluates Boolean gates over labels. The garbler's labels
// are zero labels; the evaluator's labels are the active labels of
// the wires. Both parties must call the backend operations in the
// same order.
type Backend interface {
	// And returns the label of a AND b. It exchanges garbled table
	// material with the peer.
	And(a, b wire.Label) (wire.Label, error)

	// Xor returns the label of a XOR b. It is free.
	Xor(a, b wire.Label) wire.Label

	// Not returns the label of NOT a. It is free.
	Not(a wire.Label) wire.Label

	// Input creates labels for a garbler-known input value of width
	// bits. The evaluator ignores the value argument and receives
	// the active labels from the garbler.
	Input(width int, value uint64) (wire.Word, error)

	// Reveal decodes the word to the evaluator. The result is
	// meaningful only for the evaluator; the garbler returns 0.
	Reveal(w wire.Word) (uint64, error)

	// Flush flushes any pending garbled material to the peer.
	Flush() error

	// Stats returns the gate statistics.
	Stats() Stats
}

// Stats holds gate statistics.
type Stats struct {
	And    uint64
	Xor    uint64
	Not    uint64
	Inputs uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("and=%d, xor=%d, not=%d, inputs=%d",
		s.And, s.Xor, s.Not, s.Inputs)
}

// Add returns the sum s+o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		And:    s.And + o.And,
		Xor:    s.Xor + o.Xor,
		Not:    s.Not + o.Not,
		Inputs: s.Inputs + o.Inputs,
	}
}

// Sub returns the difference s-o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		And:    s.And - o.And,
		Xor:    s.Xor - o.Xor,
		Not:    s.Not - o.Not,
		Inputs: s.Inputs - o.Inputs,
	}
}
