//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnknownLabel is returned when a label is neither encoding of its
// zero label.
var ErrUnknownLabel = errors.New("unknown label")

// Delta is the free-XOR global offset of a garbling session. A bit
// one is encoded as its zero label XOR Delta. Delta is odd: the
// colour bit of byte 0 is always set so the two labels of a wire
// have opposite colours.
type Delta struct {
	Label
}

// NewDelta creates a new random Delta.
func NewDelta(rand io.Reader) (Delta, error) {
	l, err := NewLabel(rand)
	if err != nil {
		return Delta{}, err
	}
	l.SetS(true)
	return Delta{
		Label: l,
	}, nil
}

// Encode returns the encoding of bit for the zero label l.
func (d Delta) Encode(l Label, bit uint) Label {
	if bit&1 == 0 {
		return l
	}
	return l.Xored(d.Label)
}

// EncodeWord encodes the value into the zero labels w, least
// significant bit first.
func (d Delta) EncodeWord(w Word, value uint64) Word {
	result := make(Word, len(w))
	for i := range w {
		result[i] = d.Encode(w[i], uint(value&1))
		value >>= 1
	}
	return result
}

// Decode resolves the label against its zero label.
func (d Delta) Decode(zero, l Label) (uint, error) {
	p := NewPair(zero, d)
	switch {
	case l.Equal(p.L0):
		return 0, nil
	case l.Equal(p.L1):
		return 1, nil
	default:
		return 0, fmt.Errorf("%w %s for zero label %s", ErrUnknownLabel,
			l, zero)
	}
}

// DecodeWord resolves the word against its zero labels. Words wider
// than 64 bits are truncated to their low 64 bits.
func (d Delta) DecodeWord(zero, w Word) (uint64, error) {
	if len(zero) != len(w) {
		return 0, fmt.Errorf("word width mismatch: %d != %d",
			len(zero), len(w))
	}
	var result uint64
	for i := range w {
		bit, err := d.Decode(zero[i], w[i])
		if err != nil {
			return 0, fmt.Errorf("bit %d: %w", i, err)
		}
		if i < 64 {
			result |= uint64(bit) << i
		}
	}
	return result, nil
}
