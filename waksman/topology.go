//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package waksman implements arbitrary-size (AS) Waksman permutation
// networks: network topology, routing of permutations with a
// two-colouring of the switch constraint graph, and oblivious
// application of a routed network to a vector of elements.
//
// An AS-Waksman network for n packets is a column of n/2 switches,
// two sub-networks for n/2 and n-n/2 packets, and a mirrored column
// of n/2 switches. For odd n the last packet bypasses the outer
// columns and is routed through the bottom sub-network.
//
// When laid out on an n x NumColumns(n) grid, a switch occupies two
// adjacent rows of its column. The switch's top row is its canonical
// position.
package waksman

import (
	"fmt"
	"strings"

	"github.com/markkurossi/text/superscript"
)

// Dest specifies the next column rows a packet at a grid position is
// routed to in the straight and cross switch settings. For
// pass-through positions without a switch, Straight equals Cross.
type Dest struct {
	Straight int
	Cross    int
}

// Switch tests if the position is occupied by a switch.
func (d Dest) Switch() bool {
	return d.Straight != d.Cross
}

// Topology defines the AS-Waksman network wiring: Topology[c][r] is
// the destination of row r of column c in column c+1. The topology
// depends only on the number of packets.
type Topology [][]Dest

// NumColumns returns the number of switch columns in the network for
// n packets. The two sub-networks are laid out in parallel so the
// network is two columns wider than the wider sub-network.
func NumColumns(n int) int {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		return max(NumColumns(n/2), NumColumns(n-n/2)) + 2
	}
}

// Generate creates the network topology for n packets.
func Generate(n int) Topology {
	cols := NumColumns(n)
	t := make(Topology, cols)
	for c := range t {
		t[c] = make([]Dest, n)
	}
	rdests := make([]int, n)
	for i := range rdests {
		rdests[i] = i
	}
	t.construct(0, cols-1, 0, rdests)
	return t
}

// construct lays out the sub-network for rows lo..lo+len(rdests)-1
// in columns left..right. The rdests specify the rows in column
// right+1 where the sub-network's outputs are connected to.
func (t Topology) construct(left, right, lo int, rdests []int) {
	if left > right {
		return
	}
	size := len(rdests)
	width := NumColumns(size)

	if right-left+1 > width {
		// Pad with straight wires.
		for i := 0; i < size; i++ {
			dst := lo + i
			if left == right {
				dst = rdests[i]
			}
			t[left][lo+i] = Dest{
				Straight: dst,
				Cross:    dst,
			}
		}
		t.construct(left+1, right, lo, rdests)
		return
	}
	if size == 2 {
		t[left][lo] = Dest{
			Straight: rdests[0],
			Cross:    rdests[1],
		}
		t[left][lo+1] = Dest{
			Straight: rdests[1],
			Cross:    rdests[0],
		}
		return
	}

	d := size / 2
	sub := make([]int, size)

	for k := 0; k < d; k++ {
		top := lo + 2*k
		bottom := top + 1

		// Left switch k feeds row k of both sub-networks.
		t[left][top] = Dest{
			Straight: lo + k,
			Cross:    lo + d + k,
		}
		t[left][bottom] = Dest{
			Straight: lo + d + k,
			Cross:    lo + k,
		}

		// Right switch k is fed by row k of both sub-networks.
		sub[k] = top
		sub[d+k] = bottom

		t[right][top] = Dest{
			Straight: rdests[2*k],
			Cross:    rdests[2*k+1],
		}
		t[right][bottom] = Dest{
			Straight: rdests[2*k+1],
			Cross:    rdests[2*k],
		}
	}
	if size%2 == 1 {
		last := lo + size - 1
		t[left][last] = Dest{
			Straight: last,
			Cross:    last,
		}
		sub[size-1] = last
		t[right][last] = Dest{
			Straight: rdests[size-1],
			Cross:    rdests[size-1],
		}
	}

	t.construct(left+1, right-1, lo, sub[:d])
	t.construct(left+1, right-1, lo+d, sub[d:])
}

// Size returns the number of packets of the network.
func (t Topology) Size() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

func (t Topology) String() string {
	var sb strings.Builder
	for c, col := range t {
		fmt.Fprintf(&sb, "C%s:", superscript.Itoa(c))
		for r, d := range col {
			if d.Switch() {
				fmt.Fprintf(&sb, " %d→%d/%d", r, d.Straight, d.Cross)
			} else {
				fmt.Fprintf(&sb, " %d→%d", r, d.Straight)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
