package descriptor

import (
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

type bondCounts struct {
	double, triple, aromatic int
}

func countBonds(mol *molecule.Molecule, i int) bondCounts {
	var c bondCounts
	for _, b := range mol.BondsOf(i) {
		switch b.Order {
		case molecule.BondDouble:
			c.double++
		case molecule.BondTriple:
			c.triple++
		case molecule.BondAromatic:
			c.aromatic++
		}
	}
	return c
}

// isPiCentre reports whether atom i is aromatic or carries a multiple bond.
func isPiCentre(mol *molecule.Molecule, i int) bool {
	if mol.Atoms[i].IsAromatic {
		return true
	}
	c := countBonds(mol, i)
	return c.double+c.triple+c.aromatic > 0
}

// expandedOctet reports whether atom i shares more electrons in bonds than
// its default valence, as the sulfur of a sulfoxide does.  Such centres are
// classified by steric number rather than by their double bond.
func expandedOctet(mol *molecule.Molecule, i int) bool {
	shell, ok := molecule.ValenceShellOf(mol.Atoms[i].AtomicNumber)
	return ok && bondingValence(mol, i, shell.DefaultValence) > shell.DefaultValence
}

// conjugatingDonor lists the elements whose lone pairs delocalise into an
// adjacent pi system.
var conjugatingDonor = map[int]bool{7: true, 8: true, 16: true}

// Hybridizations assigns a hybridization label to every atom from the
// molecular graph and the lone pair counts returned by LonePairs.
func Hybridizations(mol *molecule.Molecule, nbrs molecule.NeighborMap, lonePairs []int) []dtypes.Hybridization {
	out := make([]dtypes.Hybridization, mol.NumAtoms())
	for i := range mol.Atoms {
		out[i] = hybridization(mol, nbrs, lonePairs, i)
	}
	return out
}

func hybridization(mol *molecule.Molecule, nbrs molecule.NeighborMap, lonePairs []int, i int) dtypes.Hybridization {
	a := mol.Atoms[i]
	if a.IsHydrogen() {
		return dtypes.HybS
	}
	degree := nbrs.Degree(i)
	c := countBonds(mol, i)

	switch {
	case c.triple > 0, c.double >= 2 && degree == 2:
		return dtypes.HybSP
	case a.IsAromatic, c.aromatic > 0, c.double == 1 && degree <= 3 && !expandedOctet(mol, i):
		return dtypes.HybSP2
	}
	if lonePairs[i] > 0 && conjugatingDonor[a.AtomicNumber] && degree > 0 {
		for _, j := range nbrs[i] {
			if isPiCentre(mol, j) {
				return dtypes.HybSP2
			}
		}
	}

	switch degree + lonePairs[i] {
	case 0, 1:
		return dtypes.HybS
	case 2:
		return dtypes.HybSP
	case 3:
		return dtypes.HybSP2
	case 4:
		return dtypes.HybSP3
	case 5:
		return dtypes.HybSP3D
	case 6:
		return dtypes.HybSP3D2
	}
	return dtypes.HybUnspecified
}

//Personal.AI order the ending
