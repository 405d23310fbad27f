//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/markkurossi/picogram/wire"
)

// XorWord returns x XOR y.
func XorWord(b Backend, x, y wire.Word) wire.Word {
	result := make(wire.Word, len(x))
	for i := range x {
		result[i] = b.Xor(x[i], y[i])
	}
	return result
}

// Equal returns the label of x == y. The comparison costs len(x)-1
// AND gates, evaluated as a balanced tree.
func Equal(b Backend, x, y wire.Word) (wire.Label, error) {
	if len(x) != len(y) || len(x) == 0 {
		return wire.Label{}, fmt.Errorf("equal: invalid widths %d and %d",
			len(x), len(y))
	}
	bits := make([]wire.Label, len(x))
	for i := range x {
		bits[i] = b.Not(b.Xor(x[i], y[i]))
	}
	for len(bits) > 1 {
		var next []wire.Label
		for i := 0; i+1 < len(bits); i += 2 {
			l, err := b.And(bits[i], bits[i+1])
			if err != nil {
				return wire.Label{}, err
			}
			next = append(next, l)
		}
		if len(bits)%2 == 1 {
			next = append(next, bits[len(bits)-1])
		}
		bits = next
	}
	return bits[0], nil
}

// Mux returns y if sel is set and x otherwise. It costs one AND gate
// per bit.
func Mux(b Backend, sel wire.Label, x, y wire.Word) (wire.Word, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("mux: invalid widths %d and %d",
			len(x), len(y))
	}
	result := make(wire.Word, len(x))
	for i := range x {
		d, err := b.And(sel, b.Xor(x[i], y[i]))
		if err != nil {
			return nil, err
		}
		result[i] = b.Xor(x[i], d)
	}
	return result, nil
}

// CondSwap exchanges the contents of x and y if sel is set. It costs
// one AND gate per bit.
func CondSwap(b Backend, sel wire.Label, x, y wire.Word) error {
	if len(x) != len(y) {
		return fmt.Errorf("condswap: invalid widths %d and %d",
			len(x), len(y))
	}
	for i := range x {
		d, err := b.And(sel, b.Xor(x[i], y[i]))
		if err != nil {
			return err
		}
		x[i] = b.Xor(x[i], d)
		y[i] = b.Xor(y[i], d)
	}
	return nil
}
