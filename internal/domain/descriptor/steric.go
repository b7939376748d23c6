package descriptor

import (
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
)

// stericAccessibility returns 1/(1+burial) for atom i, where burial sums
// max(0, 1 - r/cutoff) over every atom that is neither i nor bonded to i.
func stericAccessibility(conf []molecule.Point3, nbrs molecule.NeighborMap, i int, cutoff float64) float64 {
	burial := 0.0
	for j := range conf {
		if j == i || nbrs.Bonded(i, j) {
			continue
		}
		if w := 1 - conf[i].Distance(conf[j])/cutoff; w > 0 {
			burial += w
		}
	}
	return 1 / (1 + burial)
}

// StericDescriptors returns sdc and sdx for every atom.  Only hydrogens with
// exactly one neighbour get a value: sdc when the neighbour is carbon, sdx
// when it is a heteroatom.
func StericDescriptors(mol *molecule.Molecule, nbrs molecule.NeighborMap, cutoff float64) (sdc, sdx []float64) {
	n := mol.NumAtoms()
	sdc, sdx = make([]float64, n), make([]float64, n)
	for i, a := range mol.Atoms {
		if !a.IsHydrogen() || len(nbrs[i]) != 1 {
			continue
		}
		parent := mol.Atoms[nbrs[i][0]].AtomicNumber
		switch {
		case parent == 6:
			sdc[i] = stericAccessibility(mol.Conformer, nbrs, i, cutoff)
		case molecule.IsHeteroatom(parent):
			sdx[i] = stericAccessibility(mol.Conformer, nbrs, i, cutoff)
		}
	}
	return sdc, sdx
}

//Personal.AI order the ending
