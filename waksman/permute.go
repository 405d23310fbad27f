//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package waksman

import (
	"fmt"
)

// CondSwap exchanges the elements a and b if cross is set. For
// encoded elements the swap is oblivious: the implementation maps
// the setting into an encoded selector and swaps with a garbled
// circuit.
type CondSwap[T any] func(cross bool, a, b *T) error

// Swap is the plaintext CondSwap.
func Swap[T any](cross bool, a, b *T) error {
	if cross {
		*a, *b = *b, *a
	}
	return nil
}

// Permute permutes input with an AS-Waksman network so that
// output[perm[i]] holds input[i]. An empty perm sets all switches
// straight and the output equals the input. The swap function is
// called once for every switch, column by column and in row order
// within a column.
func Permute[T any](input []T, perm []int, swap CondSwap[T]) ([]T, error) {
	var routing Routing

	if len(perm) > 0 {
		if len(perm) != len(input) {
			return nil, fmt.Errorf("%w: permutation %d, input %d",
				ErrSizeMismatch, len(perm), len(input))
		}
		p, err := FromSlice(perm)
		if err != nil {
			return nil, err
		}
		routing, err = Route(p)
		if err != nil {
			return nil, err
		}
		if !ValidRouting(p, routing) {
			panic(fmt.Sprintf("waksman: invalid routing for permutation %v",
				p))
		}
	}
	return Apply(Generate(len(input)), routing, input, swap)
}

// Apply runs the network topology t with the switch settings routing
// over input.
func Apply[T any](t Topology, routing Routing, input []T,
	swap CondSwap[T]) ([]T, error) {

	n := len(input)
	if len(t) > 0 && t.Size() != n {
		return nil, fmt.Errorf("%w: topology %d, input %d",
			ErrSizeMismatch, t.Size(), n)
	}

	cur := make([]T, n)
	copy(cur, input)
	next := make([]T, n)

	for c, col := range t {
		for row := 0; row < n; row++ {
			d := col[row]
			if row == n-1 || !d.Switch() {
				next[d.Straight] = cur[row]
				continue
			}
			a := row
			b := row + 1
			row++

			err := swap(routing.Cross(c, a), &cur[a], &cur[b])
			if err != nil {
				return nil, err
			}
			next[d.Straight] = cur[a]
			next[d.Cross] = cur[b]
		}
		cur, next = next, cur
	}
	return cur, nil
}
