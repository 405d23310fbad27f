//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package oram

import (
	"errors"
	"fmt"
)

// Limits for the ORAM dimensions.
const (
	MaxAddrWidth = 16
	MaxWordWidth = 64
)

var (
	ErrInvalidParams   = errors.New("invalid ORAM parameters")
	ErrParamsMismatch  = errors.New("ORAM parameters mismatch")
	ErrInitialized     = errors.New("ORAM already initialized")
	ErrNotInitialized  = errors.New("ORAM not initialized")
	ErrInvalidArgument = errors.New("invalid access argument")
	ErrClosed          = errors.New("ORAM closed")
)

// Params define the ORAM dimensions. The garbler and the evaluator
// must use identical parameters.
type Params struct {
	// AddrWidth is the address width in bits. The memory has
	// 2^AddrWidth slots.
	AddrWidth int `toml:"addr_width"`

	// WordWidth is the word width in bits.
	WordWidth int `toml:"word_width"`

	// NumAccesses is the expected number of accesses in the
	// session. It sizes the per-access latency record; the linear
	// scan itself needs no sizing. Sessions may run more accesses.
	NumAccesses int `toml:"num_accesses"`

	// ShuffleInterval specifies how often the memory slots are
	// re-permuted with a random Waksman network. The slots are
	// shuffled after every ShuffleInterval-th access. The value 0
	// disables shuffling.
	ShuffleInterval int `toml:"shuffle_interval"`
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.AddrWidth < 1 || p.AddrWidth > MaxAddrWidth {
		return fmt.Errorf("%w: address width %d not in [1,%d]",
			ErrInvalidParams, p.AddrWidth, MaxAddrWidth)
	}
	if p.WordWidth < 1 || p.WordWidth > MaxWordWidth {
		return fmt.Errorf("%w: word width %d not in [1,%d]",
			ErrInvalidParams, p.WordWidth, MaxWordWidth)
	}
	if p.NumAccesses < 0 {
		return fmt.Errorf("%w: negative number of accesses %d",
			ErrInvalidParams, p.NumAccesses)
	}
	if p.ShuffleInterval < 0 {
		return fmt.Errorf("%w: negative shuffle interval %d",
			ErrInvalidParams, p.ShuffleInterval)
	}
	return nil
}

// NumSlots returns the number of memory slots.
func (p Params) NumSlots() int {
	return 1 << p.AddrWidth
}

// SlotWidth returns the number of labels in a memory slot: the
// address tag followed by the data word.
func (p Params) SlotWidth() int {
	return p.AddrWidth + p.WordWidth
}

func (p Params) String() string {
	return fmt.Sprintf("a=%d, w=%d, n=%d, shuffle=%d",
		p.AddrWidth, p.WordWidth, p.NumAccesses, p.ShuffleInterval)
}
