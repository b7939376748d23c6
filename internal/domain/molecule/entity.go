// Package molecule provides the molecular graph used by the descriptor
// pipeline: atoms with explicit hydrogens, typed bonds and an optional 3D
// conformer.  Parsing, embedding and force-field work happen in a chemistry
// Toolkit; this package only models and validates the result.
package molecule

import (
	"fmt"
	"math"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value Objects
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the multiplicity of a covalent bond.  Values match the MDL
// molfile bond type column.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// IsValid reports whether o is a supported bond order.
func (o BondOrder) IsValid() bool {
	return o >= BondSingle && o <= BondAromatic
}

// Valence returns the number of electron pairs the bond contributes to
// each of its atoms.  Aromatic bonds count as 1.5.
func (o BondOrder) Valence() float64 {
	switch o {
	case BondSingle:
		return 1
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondAromatic:
		return 1.5
	}
	return 0
}

func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondAromatic:
		return "aromatic"
	}
	return fmt.Sprintf("BondOrder(%d)", int(o))
}

// Atom is one vertex of the molecular graph.
type Atom struct {
	AtomicNumber int  `json:"atomic_number"`
	FormalCharge int  `json:"formal_charge"`
	IsAromatic   bool `json:"is_aromatic"`
}

// Symbol returns the element symbol of the atom.
func (a Atom) Symbol() string { return Symbol(a.AtomicNumber) }

// IsHydrogen reports whether the atom is a hydrogen.
func (a Atom) IsHydrogen() bool { return a.AtomicNumber == 1 }

// Bond connects atoms Begin and End (zero-based indices).
type Bond struct {
	Begin int       `json:"begin"`
	End   int       `json:"end"`
	Order BondOrder `json:"order"`
}

// Other returns the partner of atom i in the bond.
func (b Bond) Other(i int) (int, bool) {
	switch i {
	case b.Begin:
		return b.End, true
	case b.End:
		return b.Begin, true
	}
	return -1, false
}

// Point3 is a Cartesian position in Ångström.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point3) Distance(q Point3) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Scale returns p multiplied by f.
func (p Point3) Scale(f float64) Point3 {
	return Point3{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is a molecular graph with explicit hydrogens.  Conformer holds one
// position per atom once the molecule has been embedded; it is nil before.
type Molecule struct {
	Name      string   `json:"name,omitempty"`
	SMILES    string   `json:"smiles,omitempty"`
	Atoms     []Atom   `json:"atoms"`
	Bonds     []Bond   `json:"bonds"`
	Conformer []Point3 `json:"conformer,omitempty"`
}

// NewMolecule builds and validates a molecule.  conformer may be nil.
func NewMolecule(atoms []Atom, bonds []Bond, conformer []Point3) (*Molecule, error) {
	m := &Molecule{Atoms: atoms, Bonds: bonds, Conformer: conformer}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks atom numbers, bond indices and the conformer size.
func (m *Molecule) Validate() error {
	for i, a := range m.Atoms {
		if Symbol(a.AtomicNumber) == "" {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "atom %d has unknown atomic number %d", i, a.AtomicNumber)
		}
	}
	seen := make(map[[2]int]struct{}, len(m.Bonds))
	for i, b := range m.Bonds {
		if b.Begin < 0 || b.Begin >= len(m.Atoms) || b.End < 0 || b.End >= len(m.Atoms) {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "bond %d references atom outside [0,%d)", i, len(m.Atoms))
		}
		if b.Begin == b.End {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "bond %d is a self loop on atom %d", i, b.Begin)
		}
		if !b.Order.IsValid() {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "bond %d has unsupported order %d", i, int(b.Order))
		}
		key := [2]int{b.Begin, b.End}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if _, dup := seen[key]; dup {
			return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "duplicate bond between atoms %d and %d", key[0], key[1])
		}
		seen[key] = struct{}{}
	}
	if m.Conformer != nil && len(m.Conformer) != len(m.Atoms) {
		return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "conformer has %d positions for %d atoms", len(m.Conformer), len(m.Atoms))
	}
	return nil
}

// NumAtoms returns the number of atoms including hydrogens.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// IsEmbedded reports whether the molecule carries a 3D conformer.
func (m *Molecule) IsEmbedded() bool {
	return len(m.Atoms) > 0 && len(m.Conformer) == len(m.Atoms)
}

// AtomicNumbers returns the atomic number of every atom in index order.
func (m *Molecule) AtomicNumbers() []int {
	out := make([]int, len(m.Atoms))
	for i, a := range m.Atoms {
		out[i] = a.AtomicNumber
	}
	return out
}

// NetCharge returns the sum of formal charges.
func (m *Molecule) NetCharge() int {
	var q int
	for _, a := range m.Atoms {
		q += a.FormalCharge
	}
	return q
}

// BondsOf returns the bonds incident to atom i in bond-list order.
func (m *Molecule) BondsOf(i int) []Bond {
	var out []Bond
	for _, b := range m.Bonds {
		if b.Begin == i || b.End == i {
			out = append(out, b)
		}
	}
	return out
}

// Label identifies the molecule in messages: the SMILES when known, then the
// name.
func (m *Molecule) Label() string {
	if m.SMILES != "" {
		return m.SMILES
	}
	return m.Name
}

//Personal.AI order the ending
