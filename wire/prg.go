//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"io"

	"golang.org/x/crypto/chacha20"
)

var (
	_ io.Reader = &PRG{}
)

// PRG implements a ChaCha20 keystream random generator. It is seeded
// once from a secure random source and then produces labels without
// further system calls.
type PRG struct {
	c *chacha20.Cipher
}

// NewPRG creates a new PRG seeded from rand.
func NewPRG(rand io.Reader) (*PRG, error) {
	var key [chacha20.KeySize]byte
	if _, err := io.ReadFull(rand, key[:]); err != nil {
		return nil, err
	}
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &PRG{
		c: c,
	}, nil
}

// Read implements io.Reader. It never fails.
func (prg *PRG) Read(p []byte) (int, error) {
	clear(p)
	prg.c.XORKeyStream(p, p)
	return len(p), nil
}

// Label returns the next label from the keystream.
func (prg *PRG) Label() Label {
	var buf LabelData
	var l Label

	prg.Read(buf[:])
	l.SetData(&buf)
	return l
}
