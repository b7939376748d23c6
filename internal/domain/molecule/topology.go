package molecule

import (
	"fmt"
	"slices"
	"sort"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// NeighborMap lists, for every atom index, the sorted indices of its
// covalently bonded neighbours.
type NeighborMap [][]int

// GetCovalentAtomIdxs derives the neighbour map from the bond list.  The map
// is symmetric and has no self loops for any molecule that passes Validate.
func GetCovalentAtomIdxs(m *Molecule) NeighborMap {
	nbrs := make(NeighborMap, m.NumAtoms())
	for i := range nbrs {
		nbrs[i] = []int{}
	}
	for _, b := range m.Bonds {
		if b.Begin == b.End {
			continue
		}
		nbrs[b.Begin] = append(nbrs[b.Begin], b.End)
		nbrs[b.End] = append(nbrs[b.End], b.Begin)
	}
	for _, n := range nbrs {
		sort.Ints(n)
	}
	return nbrs
}

// Degree returns the number of neighbours of atom i.
func (n NeighborMap) Degree(i int) int { return len(n[i]) }

// Bonded reports whether atoms i and j share a bond.
func (n NeighborMap) Bonded(i, j int) bool {
	row := n[i]
	k := sort.SearchInts(row, j)
	return k < len(row) && row[k] == j
}

// Validate checks that n is the neighbour map of m: one strictly increasing
// row per atom, indices in range, no self loops, symmetric, and matching the
// bond list.
func (n NeighborMap) Validate(m *Molecule) error {
	if len(n) != m.NumAtoms() {
		return errors.InvalidParam(fmt.Sprintf("neighbour map has %d rows for %d atoms", len(n), m.NumAtoms()))
	}
	for i, row := range n {
		for k, j := range row {
			switch {
			case j < 0 || j >= len(n):
				return badRow(i, fmt.Sprintf("neighbour %d is out of range", j))
			case j == i:
				return badRow(i, "atom is listed as its own neighbour")
			case k > 0 && row[k-1] >= j:
				return badRow(i, "row is not strictly increasing")
			}
		}
	}
	for i, row := range n {
		for _, j := range row {
			if !n.Bonded(j, i) {
				return badRow(i, fmt.Sprintf("neighbour %d does not list it back", j))
			}
		}
	}
	want := GetCovalentAtomIdxs(m)
	for i := range n {
		if !slices.Equal(n[i], want[i]) {
			return badRow(i, "row does not match the bond list")
		}
	}
	return nil
}

func badRow(atom int, msg string) error {
	return errors.InvalidParam("invalid neighbour map: " + msg).WithDetail(fmt.Sprintf("atom=%d", atom))
}

//Personal.AI order the ending
