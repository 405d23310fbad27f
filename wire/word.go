//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"io"
	"strings"
)

// Word implements a multi-bit value as labels, least significant bit
// first.
type Word []Label

// NewWord creates a new word of random labels.
func NewWord(rand io.Reader, width int) (Word, error) {
	w := make(Word, width)
	for i := range w {
		l, err := NewLabel(rand)
		if err != nil {
			return nil, err
		}
		w[i] = l
	}
	return w, nil
}

// Equal tests if the words have identical labels.
func (w Word) Equal(o Word) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if !w[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Copy returns a copy of the word.
func (w Word) Copy() Word {
	result := make(Word, len(w))
	copy(result, w)
	return result
}

func (w Word) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := len(w) - 1; i >= 0; i-- {
		if i+1 < len(w) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}
