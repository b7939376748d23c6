package descriptor

import (
	"fmt"

	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// bondingValence returns the number of electrons atom i shares in bonds.
// Aromatic bonds count as sigma bonds; an aromatic atom whose sigma count is
// below its default valence gets one extra pi bond.
func bondingValence(mol *molecule.Molecule, i int, defaultValence int) int {
	total := 0
	aromatic := mol.Atoms[i].IsAromatic
	for _, b := range mol.BondsOf(i) {
		if b.Order == molecule.BondAromatic {
			total++
			aromatic = true
			continue
		}
		total += int(b.Order.Valence())
	}
	if aromatic && total < defaultValence {
		total++
	}
	return total
}

// LonePairs returns the number of lone pairs on every atom of mol.  An atom
// with a negative electron balance or an element outside the valence table
// fails the whole molecule.
func LonePairs(mol *molecule.Molecule) ([]int, error) {
	out := make([]int, mol.NumAtoms())
	for i, a := range mol.Atoms {
		shell, ok := molecule.ValenceShellOf(a.AtomicNumber)
		if !ok {
			return nil, errors.New(errors.CodeUnsupportedElement,
				fmt.Sprintf("Atom %d (Z=%d) is not supported by the valence model.", i, a.AtomicNumber))
		}
		free := shell.Electrons - a.FormalCharge - bondingValence(mol, i, shell.DefaultValence)
		if free < 0 {
			return nil, errors.New(errors.CodeNegativeLonePairs,
				fmt.Sprintf("Atom %d (Z=%d) has a negative number of lone pairs.", i, a.AtomicNumber))
		}
		out[i] = free / 2
	}
	return out, nil
}

//Personal.AI order the ending
