//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/markkurossi/picogram/wire"
)

func TestGateHash(t *testing.T) {
	// AES-128 of the zero block under the zero key.
	expected, err := hex.DecodeString("66e94bd4ef8a2c3b884cfa59ca342b2e")
	if err != nil {
		t.Fatal(err)
	}

	var zero wire.Label
	h := NewGateHash(zero)

	ha, hb := h.Eval(zero, zero)

	var data wire.LabelData
	if result := ha.Bytes(&data); !bytes.Equal(expected, result) {
		t.Errorf("tweak 0: %x != %x", result, expected)
	}
	if hb.Equal(ha) {
		t.Errorf("tweak 1 gave the same output as tweak 0")
	}
}

func TestGateHashSync(t *testing.T) {
	seed := wire.Label{D0: 0x1234, D1: 0x5678}
	g := NewGateHash(seed)
	e := NewGateHash(seed)

	delta := wire.Delta{Label: wire.Label{D0: 0xff, D1: 0xee}}
	a := wire.NewPair(wire.Label{D0: 1, D1: 2}, delta)
	b := wire.NewPair(wire.Label{D0: 3, D1: 4}, delta)

	var prev wire.Label
	for i := 0; i < 3*hashBatchSize; i++ {
		ga, gb := g.Garble(a, b)

		var ea, eb wire.Label
		if i%2 == 0 {
			ea, eb = e.Eval(a.L0, b.L1)
			if !ga.L0.Equal(ea) || !gb.L1.Equal(eb) {
				t.Fatalf("gate %d: garbler and evaluator hashes differ", i)
			}
		} else {
			ea, eb = e.Eval(a.L1, b.L0)
			if !ga.L1.Equal(ea) || !gb.L0.Equal(eb) {
				t.Fatalf("gate %d: garbler and evaluator hashes differ", i)
			}
		}
		if ga.L0.Equal(prev) {
			t.Fatalf("gate %d: tweak not advanced", i)
		}
		prev = ga.L0
	}
}

func BenchmarkGateHash(b *testing.B) {
	var seed wire.Label
	h := NewGateHash(seed)
	a := wire.Pair{L1: wire.Label{D0: 1}}
	c := wire.Pair{L1: wire.Label{D0: 2}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Garble(a, c)
	}
}
