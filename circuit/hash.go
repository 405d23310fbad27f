//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/markkurossi/picogram/wire"
)

// Number of gate keys expanded at a time.
const hashBatchSize = 16

// GateHash implements the tweakable hash of the half-gates AND gate:
// H(x, t) = AES_{seed^t}(x) XOR x. This is the multi-instance
// tweakable circular correlation robust hash of Guo et al. (the
// EMP-toolkit MITCCRH). Every AND gate consumes two tweaks, one for
// each half gate. The garbler and the evaluator share the seed and
// hash the gates in the same order, so their tweaks stay in step.
type GateHash struct {
	seed  wire.Label
	tweak uint64
	keys  [hashBatchSize]cipher.Block
	next  int
	buf   wire.LabelData
}

// NewGateHash creates a gate hash for the session seed.
func NewGateHash(seed wire.Label) *GateHash {
	return &GateHash{
		seed: seed,
		next: hashBatchSize,
	}
}

func (h *GateHash) key() cipher.Block {
	if h.next == len(h.keys) {
		for i := range h.keys {
			k := h.seed.Xored(wire.Label{D0: h.tweak})
			h.tweak++

			block, err := aes.NewCipher(k.Bytes(&h.buf))
			if err != nil {
				panic(err)
			}
			h.keys[i] = block
		}
		h.next = 0
	}
	k := h.keys[h.next]
	h.next++
	return k
}

func (h *GateHash) hash(key cipher.Block, l wire.Label) wire.Label {
	key.Encrypt(h.buf[:], l.Bytes(&h.buf))
	var r wire.Label
	r.SetData(&h.buf)
	return r.Xored(l)
}

// Garble hashes both labels of the AND gate inputs a and b.
func (h *GateHash) Garble(a, b wire.Pair) (ha, hb wire.Pair) {
	ka := h.key()
	kb := h.key()

	ha = wire.Pair{
		L0: h.hash(ka, a.L0),
		L1: h.hash(ka, a.L1),
	}
	hb = wire.Pair{
		L0: h.hash(kb, b.L0),
		L1: h.hash(kb, b.L1),
	}
	return
}

// Eval hashes the active labels of the AND gate inputs a and b with
// the same tweaks Garble used for the gate.
func (h *GateHash) Eval(a, b wire.Label) (ha, hb wire.Label) {
	ka := h.key()
	kb := h.key()
	return h.hash(ka, a), h.hash(kb, b)
}
