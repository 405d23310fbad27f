//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/markkurossi/picogram/wire"
)

var (
	_ Backend = &Plain{}
)

// Plain implements the Backend over cleartext bits. A label holds
// its bit value in D0. It is used to verify the gadgets without a
// peer.
type Plain struct {
	stats Stats
}

// PlainBit returns the cleartext label for the bit.
func PlainBit(bit bool) wire.Label {
	if bit {
		return wire.Label{D0: 1}
	}
	return wire.Label{}
}

// PlainWord returns the cleartext word for the value.
func PlainWord(width int, value uint64) wire.Word {
	w := make(wire.Word, width)
	for i := range w {
		w[i] = PlainBit(i < 64 && (value>>i)&1 == 1)
	}
	return w
}

// And implements Backend.And.
func (p *Plain) And(a, b wire.Label) (wire.Label, error) {
	p.stats.And++
	return wire.Label{D0: a.D0 & b.D0 & 1}, nil
}

// Xor implements Backend.Xor.
func (p *Plain) Xor(a, b wire.Label) wire.Label {
	p.stats.Xor++
	return wire.Label{D0: (a.D0 ^ b.D0) & 1}
}

// Not implements Backend.Not.
func (p *Plain) Not(a wire.Label) wire.Label {
	p.stats.Not++
	return wire.Label{D0: ^a.D0 & 1}
}

// Input implements Backend.Input.
func (p *Plain) Input(width int, value uint64) (wire.Word, error) {
	p.stats.Inputs += uint64(width)
	return PlainWord(width, value), nil
}

// Reveal implements Backend.Reveal.
func (p *Plain) Reveal(w wire.Word) (uint64, error) {
	var result uint64
	for i, l := range w {
		if i < 64 {
			result |= (l.D0 & 1) << i
		}
	}
	return result, nil
}

// Flush implements Backend.Flush.
func (p *Plain) Flush() error {
	return nil
}

// Stats implements Backend.Stats.
func (p *Plain) Stats() Stats {
	return p.stats
}
