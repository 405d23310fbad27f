//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package oram

import (
	"crypto/rand"
	"errors"
	mrand "math/rand"
	"net"
	"testing"

	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/wire"
)

type op struct {
	addr  uint64
	write bool
	value uint64
}

func trace(params Params, seed int64) []op {
	rnd := mrand.New(mrand.NewSource(seed))
	mask := uint64(1)<<params.WordWidth - 1

	ops := make([]op, params.NumAccesses)
	for i := range ops {
		ops[i] = op{
			addr:  uint64(rnd.Intn(params.NumSlots())),
			write: rnd.Intn(2) == 1,
			value: rnd.Uint64() & mask,
		}
	}
	return ops
}

// reference runs the trace over a plain memory and returns the value
// each access read and the final memory.
func reference(params Params, ops []op) ([]uint64, []uint64) {
	mem := make([]uint64, params.NumSlots())
	result := make([]uint64, len(ops))
	for i, o := range ops {
		result[i] = mem[o.addr]
		if o.write {
			mem[o.addr] = o.value
		}
	}
	return result, mem
}

// access feeds the operation inputs and runs one access. The
// evaluator ignores the operation values.
func access(o *ORAM, ram op) (wire.Word, error) {
	addr, err := o.Input(o.params.AddrWidth, ram.addr)
	if err != nil {
		return nil, err
	}
	var w uint64
	if ram.write {
		w = 1
	}
	isWrite, err := o.Input(1, w)
	if err != nil {
		return nil, err
	}
	value, err := o.Input(o.params.WordWidth, ram.value)
	if err != nil {
		return nil, err
	}
	return o.Access(addr, isWrite[0], value)
}

type session struct {
	reads  []wire.Word
	memory []wire.Word
}

func play(o *ORAM, conn *p2p.Conn, ops []op) (*session, error) {
	if err := o.Initialize(conn); err != nil {
		return nil, err
	}
	s := new(session)
	for _, ram := range ops {
		old, err := access(o, ram)
		if err != nil {
			return nil, err
		}
		s.reads = append(s.reads, old)
	}
	s.memory = o.Memory()
	return s, nil
}

func testSession(t *testing.T, params Params, gc, ec *p2p.Conn) {
	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ops := trace(params, 42)
	expected, final := reference(params, ops)

	type result struct {
		s   *session
		err error
	}
	done := make(chan result)
	go func() {
		g, err := NewGarbler(params, delta, nil)
		if err != nil {
			done <- result{err: err}
			return
		}
		s, err := play(g, gc, ops)
		done <- result{s: s, err: err}
	}()

	e, err := NewEvaluator(params, nil)
	if err != nil {
		t.Fatal(err)
	}
	es, err := play(e, ec, make([]op, len(ops)))
	if err != nil {
		t.Fatal(err)
	}
	gr := <-done
	if gr.err != nil {
		t.Fatal(gr.err)
	}
	gs := gr.s

	for i := range ops {
		v, err := delta.DecodeWord(gs.reads[i], es.reads[i])
		if err != nil {
			t.Fatalf("access %d: %v", i, err)
		}
		if v != expected[i] {
			t.Errorf("access %d %+v: got %x, expected %x",
				i, ops[i], v, expected[i])
		}
	}

	a := params.AddrWidth
	seen := make(map[uint64]bool)
	for j := range gs.memory {
		tag, err := delta.DecodeWord(gs.memory[j][:a], es.memory[j][:a])
		if err != nil {
			t.Fatalf("slot %d tag: %v", j, err)
		}
		data, err := delta.DecodeWord(gs.memory[j][a:], es.memory[j][a:])
		if err != nil {
			t.Fatalf("slot %d data: %v", j, err)
		}
		if seen[tag] {
			t.Errorf("slot %d: duplicate tag %d", j, tag)
		}
		seen[tag] = true
		if data != final[tag] {
			t.Errorf("memory[%d]: got %x, expected %x", tag, data, final[tag])
		}
	}
	if len(seen) != params.NumSlots() {
		t.Errorf("got %d tags, expected %d", len(seen), params.NumSlots())
	}

	gc.Close()
	ec.Close()
}

func TestPipe(t *testing.T) {
	params := Params{
		AddrWidth:   4,
		WordWidth:   8,
		NumAccesses: 256,
	}
	gc, ec := p2p.Pipe()
	testSession(t, params, gc, ec)
}

func TestShuffle(t *testing.T) {
	for _, interval := range []int{1, 7} {
		params := Params{
			AddrWidth:       3,
			WordWidth:       6,
			NumAccesses:     64,
			ShuffleInterval: interval,
		}
		gc, ec := p2p.Pipe()
		testSession(t, params, gc, ec)
	}
}

func TestSmall(t *testing.T) {
	for a := 1; a <= 3; a++ {
		params := Params{
			AddrWidth:       a,
			WordWidth:       1,
			NumAccesses:     32,
			ShuffleInterval: 3,
		}
		gc, ec := p2p.Pipe()
		testSession(t, params, gc, ec)
	}
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().String()
}

func TestTCP(t *testing.T) {
	params := Params{
		AddrWidth:   3,
		WordWidth:   6,
		NumAccesses: 64,
	}
	addr := freeAddr(t)

	type result struct {
		conn *p2p.Conn
		err  error
	}
	listen := make(chan result)
	go func() {
		c, err := p2p.Listen(addr)
		listen <- result{conn: c, err: err}
	}()
	ec, err := p2p.Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	r := <-listen
	if r.err != nil {
		t.Fatal(r.err)
	}
	testSession(t, params, r.conn, ec)
}

func TestDual(t *testing.T) {
	params := Params{
		AddrWidth:       3,
		WordWidth:       6,
		NumAccesses:     64,
		ShuffleInterval: 16,
	}
	addr0 := freeAddr(t)
	addr1 := freeAddr(t)

	type result struct {
		conn *p2p.Conn
		err  error
	}
	listen := make(chan result)
	go func() {
		c, err := p2p.ListenDual(addr0, addr1)
		listen <- result{conn: c, err: err}
	}()
	ec, err := p2p.DialDual(addr0, addr1)
	if err != nil {
		t.Fatal(err)
	}
	r := <-listen
	if r.err != nil {
		t.Fatal(r.err)
	}
	testSession(t, params, r.conn, ec)
}

func TestAccessCost(t *testing.T) {
	params := Params{
		AddrWidth:   3,
		WordWidth:   5,
		NumAccesses: 16,
	}
	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	gc, ec := p2p.Pipe()
	defer gc.Close()
	defer ec.Close()

	done := make(chan error)
	go func() {
		e, err := NewEvaluator(params, nil)
		if err != nil {
			done <- err
			return
		}
		_, err = play(e, ec, make([]op, params.NumAccesses))
		done <- err
	}()

	g, err := NewGarbler(params, delta, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Initialize(gc); err != nil {
		t.Fatal(err)
	}

	// Per slot: a-1 ANDs for the tag comparison, w for reading
	// (except slot 0), 1 for the write select, and w for writing.
	a := params.AddrWidth
	w := params.WordWidth
	n := params.NumSlots()
	perAccess := uint64(n*(a-1+1+w) + (n-1)*w)

	var last uint64
	for i, ram := range trace(params, int64(7)) {
		if _, err := access(g, ram); err != nil {
			t.Fatal(err)
		}
		and := g.Stats().Gates.And
		if and-last != perAccess {
			t.Errorf("access %d: %d ANDs, expected %d", i, and-last, perAccess)
		}
		last = and
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	stats := g.Stats()
	if stats.Accesses != params.NumAccesses || stats.Shuffles != 0 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestParamsMismatch(t *testing.T) {
	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	gc, ec := p2p.Pipe()
	defer gc.Close()
	defer ec.Close()

	go func() {
		g, err := NewGarbler(Params{AddrWidth: 3, WordWidth: 8}, delta, nil)
		if err != nil {
			return
		}
		g.Initialize(gc)
	}()

	e, err := NewEvaluator(Params{AddrWidth: 3, WordWidth: 6}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = e.Initialize(ec)
	if !errors.Is(err, ErrParamsMismatch) {
		t.Fatalf("Initialize: got %v, expected %v", err, ErrParamsMismatch)
	}
}

func TestErrors(t *testing.T) {
	for _, params := range []Params{
		{AddrWidth: 0, WordWidth: 8},
		{AddrWidth: MaxAddrWidth + 1, WordWidth: 8},
		{AddrWidth: 3, WordWidth: 0},
		{AddrWidth: 3, WordWidth: MaxWordWidth + 1},
		{AddrWidth: 3, WordWidth: 8, NumAccesses: -1},
		{AddrWidth: 3, WordWidth: 8, ShuffleInterval: -1},
	} {
		if _, err := NewEvaluator(params, nil); !errors.Is(err,
			ErrInvalidParams) {
			t.Errorf("NewEvaluator(%v): got %v, expected %v",
				params, err, ErrInvalidParams)
		}
	}

	params := Params{AddrWidth: 2, WordWidth: 4}
	if _, err := NewGarbler(params, wire.Delta{}, nil); !errors.Is(err,
		ErrInvalidParams) {
		t.Errorf("NewGarbler with even delta: got %v", err)
	}

	delta, err := wire.NewDelta(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGarbler(params, delta, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Access(make(wire.Word, 2), wire.Label{}, make(wire.Word, 4))
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Access before Initialize: got %v", err)
	}

	gc, ec := p2p.Pipe()
	defer gc.Close()
	defer ec.Close()

	go func() {
		e, err := NewEvaluator(params, nil)
		if err != nil {
			return
		}
		e.Initialize(ec)
	}()
	if err := g.Initialize(gc); err != nil {
		t.Fatal(err)
	}
	if err := g.Initialize(gc); !errors.Is(err, ErrInitialized) {
		t.Errorf("second Initialize: got %v", err)
	}
	_, err = g.Access(make(wire.Word, 3), wire.Label{}, make(wire.Word, 4))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Access with wide address: got %v", err)
	}
	_, err = g.Access(make(wire.Word, 2), wire.Label{}, make(wire.Word, 5))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Access with wide value: got %v", err)
	}
	if g.Role() != Garbler || g.Role().String() != "garbler" {
		t.Errorf("unexpected role %v", g.Role())
	}

	g.Close()
	old, err := g.Access(make(wire.Word, 2), wire.Label{}, make(wire.Word, 4))
	if !errors.Is(err, ErrClosed) || old != nil {
		t.Errorf("Access after Close: got %v, %v", old, err)
	}
	if _, err := g.Input(4, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Input after Close: got %v", err)
	}
	if _, err := g.Reveal(make(wire.Word, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("Reveal after Close: got %v", err)
	}
	if err := g.Initialize(gc); !errors.Is(err, ErrClosed) {
		t.Errorf("Initialize after Close: got %v", err)
	}
	if g.Stats().Accesses != 0 {
		t.Errorf("closed session counted accesses: %v", g.Stats())
	}
}
