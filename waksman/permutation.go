//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package waksman

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidPermutation is returned when a permutation is not a
	// bijection over its index range.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrSizeMismatch is returned when the permutation and the
	// permuted vector lengths differ.
	ErrSizeMismatch = errors.New("permutation size mismatch")
)

// Permutation maps index i to Get(i) over {0..Size()-1}.
type Permutation struct {
	values []int
}

// NewPermutation creates a new permutation of size n. All indices map
// to 0 until set with Set.
func NewPermutation(n int) *Permutation {
	return &Permutation{
		values: make([]int, n),
	}
}

// NewIdentity creates the identity permutation of size n.
func NewIdentity(n int) *Permutation {
	p := NewPermutation(n)
	for i := range p.values {
		p.values[i] = i
	}
	return p
}

// FromSlice creates a permutation from the images in values.
func FromSlice(values []int) (*Permutation, error) {
	p := &Permutation{
		values: make([]int, len(values)),
	}
	copy(p.values, values)
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPermutation, values)
	}
	return p, nil
}

// Random creates a uniformly random permutation of size n with the
// Fisher-Yates shuffle.
func Random(n int, rand io.Reader) (*Permutation, error) {
	p := NewIdentity(n)
	for i := n - 1; i > 0; i-- {
		j, err := uniform(rand, uint64(i+1))
		if err != nil {
			return nil, err
		}
		p.values[i], p.values[j] = p.values[j], p.values[i]
	}
	return p, nil
}

// uniform returns a uniform random value in [0, n).
func uniform(rand io.Reader, n uint64) (uint64, error) {
	var buf [8]byte
	limit := ^uint64(0) - ^uint64(0)%n
	for {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return v % n, nil
		}
	}
}

// Size returns the permutation size.
func (p *Permutation) Size() int {
	return len(p.values)
}

// Set sets the image of index i.
func (p *Permutation) Set(i, value int) {
	p.values[i] = value
}

// Get returns the image of index i.
func (p *Permutation) Get(i int) int {
	return p.values[i]
}

// Slice returns the permutation images.
func (p *Permutation) Slice() []int {
	result := make([]int, len(p.values))
	copy(result, p.values)
	return result
}

// Valid tests if the permutation is a bijection: all values are in
// range and no value repeats.
func (p *Permutation) Valid() bool {
	seen := make([]bool, len(p.values))
	for _, v := range p.values {
		if v < 0 || v >= len(p.values) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Inverse returns the inverse permutation. The permutation must be
// valid.
func (p *Permutation) Inverse() *Permutation {
	inv := NewPermutation(len(p.values))
	for i, v := range p.values {
		inv.values[v] = i
	}
	return inv
}

func (p *Permutation) String() string {
	return fmt.Sprintf("%v", p.values)
}
