//
// label.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package wire implements garbled circuit wire labels and the
// free-XOR encoding of plaintext bits into labels.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LambdaBytes is the label size in bytes.
const LambdaBytes = 16

// Label implements a 128 bit wire label. The label's byte form is
// little-endian: byte 0 is the least significant byte of D0.
type Label struct {
	D0 uint64
	D1 uint64
}

// LabelData contains label data as byte array.
type LabelData [LambdaBytes]byte

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D1, l.D0)
}

// Equal tests if the labels are equal.
func (l Label) Equal(o Label) bool {
	return l.D0 == o.D0 && l.D1 == o.D1
}

// NewLabel creates a new random label.
func NewLabel(rand io.Reader) (Label, error) {
	var buf LabelData
	var label Label

	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return label, err
	}
	label.SetData(&buf)
	return label, nil
}

// S returns the label's colour bit, the lowest bit of byte 0. The
// point-and-permute garbling uses it to select garbled table rows.
func (l Label) S() bool {
	return l.D0&1 != 0
}

// SetS sets the label's colour bit.
func (l *Label) SetS(set bool) {
	if set {
		l.D0 |= 1
	} else {
		l.D0 &^= 1
	}
}

// Xor xors the label with the argument label.
func (l *Label) Xor(o Label) {
	l.D0 ^= o.D0
	l.D1 ^= o.D1
}

// Xored returns l XOR o.
func (l Label) Xored(o Label) Label {
	return Label{
		D0: l.D0 ^ o.D0,
		D1: l.D1 ^ o.D1,
	}
}

// GetData gets the label as label data.
func (l Label) GetData(buf *LabelData) {
	l.PutBytes(buf[:])
}

// PutBytes encodes the label into the first LambdaBytes bytes of buf.
func (l Label) PutBytes(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], l.D0)
	binary.LittleEndian.PutUint64(buf[8:16], l.D1)
}

// SetData sets the label from label data.
func (l *Label) SetData(data *LabelData) {
	l.D0 = binary.LittleEndian.Uint64((*data)[0:8])
	l.D1 = binary.LittleEndian.Uint64((*data)[8:16])
}

// Bytes returns the label data as bytes.
func (l Label) Bytes(buf *LabelData) []byte {
	l.GetData(buf)
	return buf[:]
}

// SetBytes sets the label data from bytes.
func (l *Label) SetBytes(data []byte) {
	l.D0 = binary.LittleEndian.Uint64(data[0:8])
	l.D1 = binary.LittleEndian.Uint64(data[8:16])
}

// Pair implements a wire with 0 and 1 labels.
type Pair struct {
	L0 Label
	L1 Label
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.L0, p.L1)
}

// NewPair creates the label pair for the zero label l0.
func NewPair(l0 Label, delta Delta) Pair {
	return Pair{
		L0: l0,
		L1: l0.Xored(delta.Label),
	}
}

// Get returns the label for the bit value.
func (p Pair) Get(bit bool) Label {
	if bit {
		return p.L1
	}
	return p.L0
}
