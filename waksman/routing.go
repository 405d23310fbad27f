//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package waksman

import (
	"fmt"
)

// Routing holds the switch settings of a network: Routing[c][r] is
// true if the switch with canonical position (c, r) is in the cross
// setting. Only canonical rows are meaningful. A nil Routing sets all
// switches straight.
type Routing [][]bool

// Cross tests if the switch at the canonical position (col, row) is
// in the cross setting.
func (r Routing) Cross(col, row int) bool {
	if r == nil {
		return false
	}
	return r[col][row]
}

// packet colours in the switch constraint graph.
const (
	uncolored byte = iota
	top
	bottom
)

func other(c byte) byte {
	if c == top {
		return bottom
	}
	return top
}

// Route computes the switch settings that realize the permutation p:
// a packet entering the network at row i leaves it at row p.Get(i).
func Route(p *Permutation) (Routing, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPermutation, p)
	}
	n := p.Size()
	cols := NumColumns(n)

	r := make(Routing, cols)
	for c := range r {
		r[c] = make([]bool, n)
	}
	r.route(0, cols-1, 0, p.Slice())

	return r, nil
}

// route routes the relative permutation perm through the sub-network
// at rows lo..lo+len(perm)-1 and columns left..right. The recursion
// depth is bounded by the number of columns, O(log n).
func (r Routing) route(left, right, lo int, perm []int) {
	if left > right {
		return
	}
	size := len(perm)
	width := NumColumns(size)

	if right-left+1 > width {
		// Straight padding column.
		r.route(left+1, right, lo, perm)
		return
	}
	if size == 2 {
		r[left][lo] = perm[0] == 1
		return
	}

	d := size / 2
	inv := make([]int, size)
	for i, v := range perm {
		inv[v] = i
	}
	color := colorPackets(perm, inv)

	for k := 0; k < d; k++ {
		r[left][lo+2*k] = color[2*k] == bottom
		r[right][lo+2*k] = color[inv[2*k]] == bottom
	}

	topPerm := make([]int, d)
	bottomPerm := make([]int, size-d)
	for i, v := range perm {
		if color[i] == top {
			topPerm[i/2] = v / 2
		} else {
			bottomPerm[i/2] = v / 2
		}
	}

	r.route(left+1, right-1, lo, topPerm)
	r.route(left+1, right-1, lo+d, bottomPerm)
}

// colorPackets assigns each packet to the top or bottom sub-network.
// The constraint graph has an edge between the two inputs of each
// left switch and between the two packets destined to the outputs of
// each right switch. Every vertex has degree two or less, so the
// graph is a union of paths and even cycles and a walk alternating
// colours along each component is a valid 2-colouring.
func colorPackets(perm, inv []int) []byte {
	size := len(perm)
	paired := size &^ 1
	color := make([]byte, size)

	walk := func(v int, c byte, viaInput bool) {
		for {
			color[v] = c

			var next int
			if viaInput {
				if v >= paired {
					return
				}
				next = v ^ 1
			} else {
				o := perm[v]
				if o >= paired {
					return
				}
				next = inv[o^1]
			}
			if color[next] != uncolored {
				if color[next] == c {
					panic(fmt.Sprintf("waksman: inconsistent colouring at %d",
						next))
				}
				return
			}
			v = next
			c = other(c)
			viaInput = !viaInput
		}
	}

	if size%2 == 1 {
		// The last input and output bypass the outer switches and
		// are wired to the bottom sub-network. They are the two
		// ends of the only path in the graph.
		walk(size-1, bottom, false)
		if color[inv[size-1]] == uncolored {
			walk(inv[size-1], bottom, true)
		}
	}
	for i := 0; i < size; i++ {
		if color[i] == uncolored {
			walk(i, top, true)
		}
	}
	return color
}

// ValidRouting tests if the routing realizes the permutation p by
// running the network on the identity vector. This runs the whole
// network and is meant for verification.
func ValidRouting(p *Permutation, routing Routing) bool {
	n := p.Size()
	if routing != nil {
		if len(routing) != NumColumns(n) {
			return false
		}
		for _, col := range routing {
			if len(col) != n {
				return false
			}
		}
	}
	input := make([]int, n)
	for i := range input {
		input[i] = i
	}
	output, err := Apply(Generate(n), routing, input, Swap[int])
	if err != nil {
		return false
	}
	for i := 0; i < n; i++ {
		v := p.Get(i)
		if v < 0 || v >= n || output[v] != i {
			return false
		}
	}
	return true
}
