//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package oram implements a two-party garbled circuit ORAM. The
// garbler and the evaluator each hold their own labels of the
// memory and run Access in lock-step; neither party learns the
// accessed address, the stored values, or the access pattern.
//
// Every access scans all slots obliviously. Each slot carries an
// encoded address tag next to its data word; the accessed slot is
// selected by comparing the secret address against the tags, and read
// and written with multiplexers. The gate count and the traffic of an
// access depend only on the address and word widths. Optionally the
// slots are re-permuted with a random AS-Waksman network on a
// configurable schedule.
package oram

import (
	"fmt"
	"time"

	"github.com/markkurossi/picogram/circuit"
	"github.com/markkurossi/picogram/env"
	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/waksman"
	"github.com/markkurossi/picogram/wire"
)

// Role defines the party of the session.
type Role int

// Session roles.
const (
	Garbler Role = iota
	Evaluator
)

var roles = map[Role]string{
	Garbler:   "garbler",
	Evaluator: "evaluator",
}

func (r Role) String() string {
	name, ok := roles[r]
	if ok {
		return name
	}
	return fmt.Sprintf("{Role %d}", r)
}

// ORAM implements one party of an ORAM session. Access calls must be
// sequential.
type ORAM struct {
	params  Params
	role    Role
	delta   wire.Delta
	config  *env.Config
	backend circuit.Backend
	conn    *p2p.Conn
	mem     []wire.Word
	stats   Stats
	closed  bool

	phases    [numPhases]Phase
	latencies []time.Duration
}

// Stats holds session statistics.
type Stats struct {
	Accesses int
	Shuffles int
	Gates    circuit.Stats
}

func (s Stats) String() string {
	return fmt.Sprintf("accesses=%d, shuffles=%d, %s",
		s.Accesses, s.Shuffles, s.Gates)
}

// NewGarbler creates the garbler party for the session Delta.
func NewGarbler(params Params, delta wire.Delta, config *env.Config) (
	*ORAM, error) {

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !delta.S() {
		return nil, fmt.Errorf("%w: delta is not odd", ErrInvalidParams)
	}
	return &ORAM{
		params: params,
		role:   Garbler,
		delta:  delta,
		config: config,

		latencies: make([]time.Duration, 0, params.NumAccesses),
	}, nil
}

// NewEvaluator creates the evaluator party.
func NewEvaluator(params Params, config *env.Config) (*ORAM, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ORAM{
		params: params,
		role:   Evaluator,
		config: config,

		latencies: make([]time.Duration, 0, params.NumAccesses),
	}, nil
}

// Params returns the session parameters.
func (o *ORAM) Params() Params {
	return o.params
}

// Delta returns the garbler's global offset. The evaluator's Delta
// is zero.
func (o *ORAM) Delta() wire.Delta {
	return o.delta
}

// Role returns the party's role.
func (o *ORAM) Role() Role {
	return o.role
}

func (o *ORAM) ready() error {
	if o.closed {
		return ErrClosed
	}
	if o.backend == nil {
		return ErrNotInitialized
	}
	return nil
}

// Initialize sets up the session over the connection: the garbler
// sends the session header, the gate hash seed, and the labels of the
// initial memory where each slot holds its own index as the address
// tag and zero as data. Initialize can be called once per session.
func (o *ORAM) Initialize(conn *p2p.Conn) error {
	if o.closed {
		return ErrClosed
	}
	if o.backend != nil || o.conn != nil {
		return ErrInitialized
	}
	o.conn = conn
	m := o.begin()

	var err error
	switch o.role {
	case Garbler:
		err = o.sendHeader()
		if err != nil {
			return err
		}
		o.backend, err = circuit.NewGarbler(conn, o.delta,
			o.config.GetRandom())
	default:
		err = o.receiveHeader()
		if err != nil {
			return err
		}
		o.backend, err = circuit.NewEvaluator(conn)
	}
	if err != nil {
		return err
	}

	o.mem = make([]wire.Word, o.params.NumSlots())
	for i := range o.mem {
		o.mem[i], err = o.backend.Input(o.params.SlotWidth(), uint64(i))
		if err != nil {
			return err
		}
	}
	if err := o.backend.Flush(); err != nil {
		return err
	}
	o.end(PhaseInit, m)
	o.config.Debugf("oram: %s: initialized %d slots (%s)\n",
		o.role, len(o.mem), o.params)

	return nil
}

func (o *ORAM) sendHeader() error {
	for _, v := range []int{
		o.params.AddrWidth, o.params.WordWidth, o.params.ShuffleInterval,
	} {
		if err := o.conn.SendUint32(v); err != nil {
			return err
		}
	}
	return nil
}

func (o *ORAM) receiveHeader() error {
	var values [3]int
	for i := range values {
		v, err := o.conn.ReceiveUint32()
		if err != nil {
			return err
		}
		values[i] = v
	}
	if values[0] != o.params.AddrWidth || values[1] != o.params.WordWidth ||
		values[2] != o.params.ShuffleInterval {
		return fmt.Errorf("%w: peer a=%d, w=%d, shuffle=%d, local %s",
			ErrParamsMismatch, values[0], values[1], values[2], o.params)
	}
	return nil
}

// Access reads the word at the address and, if isWrite is set, writes
// newValue to it. It returns the word the slot held before the
// access. All arguments and the result are labels: the garbler passes
// and gets zero labels, the evaluator the active labels.
func (o *ORAM) Access(addr wire.Word, isWrite wire.Label,
	newValue wire.Word) (wire.Word, error) {

	if err := o.ready(); err != nil {
		return nil, err
	}
	if len(addr) != o.params.AddrWidth {
		return nil, fmt.Errorf("%w: address width %d, expected %d",
			ErrInvalidArgument, len(addr), o.params.AddrWidth)
	}
	if len(newValue) != o.params.WordWidth {
		return nil, fmt.Errorf("%w: word width %d, expected %d",
			ErrInvalidArgument, len(newValue), o.params.WordWidth)
	}

	m := o.begin()
	b := o.backend
	a := o.params.AddrWidth
	var old wire.Word

	for j, slot := range o.mem {
		tag := slot[:a]
		data := slot[a:]

		eq, err := circuit.Equal(b, addr, tag)
		if err != nil {
			return nil, err
		}
		if j == 0 {
			old = data.Copy()
		} else {
			old, err = circuit.Mux(b, eq, old, data)
			if err != nil {
				return nil, err
			}
		}
		sel, err := b.And(eq, isWrite)
		if err != nil {
			return nil, err
		}
		data, err = circuit.Mux(b, sel, data, newValue)
		if err != nil {
			return nil, err
		}
		copy(slot[a:], data)
	}
	if err := b.Flush(); err != nil {
		return nil, err
	}
	o.stats.Accesses++
	latency := o.end(PhaseAccess, m)

	if o.params.ShuffleInterval > 0 &&
		o.stats.Accesses%o.params.ShuffleInterval == 0 {
		m = o.begin()
		if err := o.shuffle(); err != nil {
			return nil, err
		}
		if err := b.Flush(); err != nil {
			return nil, err
		}
		latency += o.end(PhaseShuffle, m)
	}
	o.latencies = append(o.latencies, latency)

	return old, nil
}

// shuffle re-permutes the memory slots with a random permutation
// known only to the garbler. The garbler feeds each switch setting as
// an input label so the evaluator runs the same network without
// learning the permutation.
func (o *ORAM) shuffle() error {
	var perm []int
	if o.role == Garbler {
		p, err := waksman.Random(len(o.mem), o.config.GetRandom())
		if err != nil {
			return err
		}
		perm = p.Slice()
	}
	mem, err := waksman.Permute(o.mem, perm,
		func(cross bool, x, y *wire.Word) error {
			var v uint64
			if cross {
				v = 1
			}
			sel, err := o.backend.Input(1, v)
			if err != nil {
				return err
			}
			return circuit.CondSwap(o.backend, sel[0], *x, *y)
		})
	if err != nil {
		return err
	}
	o.mem = mem
	o.stats.Shuffles++
	o.config.Debugf("oram: %s: shuffle %d after access %d\n",
		o.role, o.stats.Shuffles, o.stats.Accesses)

	return nil
}

// Input creates labels for a garbler-known value. The evaluator
// receives the active labels and ignores the value.
func (o *ORAM) Input(width int, value uint64) (wire.Word, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.backend.Input(width, value)
}

// Reveal decodes the word to the evaluator. The garbler gets 0.
func (o *ORAM) Reveal(w wire.Word) (uint64, error) {
	if err := o.ready(); err != nil {
		return 0, err
	}
	v, err := o.backend.Reveal(w)
	if err != nil {
		return 0, err
	}
	return v, o.backend.Flush()
}

// Memory returns a copy of the memory slots. Each slot holds the
// address tag labels followed by the data word labels.
func (o *ORAM) Memory() []wire.Word {
	result := make([]wire.Word, len(o.mem))
	for i, slot := range o.mem {
		result[i] = slot.Copy()
	}
	return result
}

// Stats returns the session statistics.
func (o *ORAM) Stats() Stats {
	stats := o.stats
	if o.backend != nil {
		stats.Gates = o.backend.Stats()
	}
	return stats
}

// Close releases the memory and ends the session. Any further
// operation returns ErrClosed. The connection is owned by the caller.
func (o *ORAM) Close() {
	o.mem = nil
	o.closed = true
}
