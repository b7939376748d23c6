// Package kallisto adapts an embedded molecule to the representation used by
// the kallisto EEQ model: atomic numbers, positions in Bohr and atomic
// polarizabilities.  The numerics themselves run in a Solver.
package kallisto

import (
	"context"
	"fmt"

	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Bohr is one Bohr radius in Ångström.
const Bohr = 0.52917721067

// Solver computes kallisto properties from atomic numbers and Bohr positions.
type Solver interface {
	Polarizabilities(ctx context.Context, numbers []int, positions []molecule.Point3) ([]float64, error)
	EEQCharges(ctx context.Context, numbers []int, positions []molecule.Point3, netCharge int) ([]float64, error)
}

// Molecule is the kallisto view of an embedded molecule.  Positions are in
// Bohr.
type Molecule struct {
	Name             string
	Numbers          []int
	Positions        []molecule.Point3
	Polarizabilities []float64

	solver Solver
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.Numbers) }

// Solver returns the solver the molecule was built with.
func (m *Molecule) Solver() Solver { return m.solver }

// NewMolecule assembles a kallisto molecule from precomputed parts.
func NewMolecule(name string, numbers []int, positions []molecule.Point3, alp []float64, solver Solver) (*Molecule, error) {
	if len(numbers) != len(positions) || len(numbers) != len(alp) {
		return nil, errors.Newf(errors.CodeKallisto,
			"kallisto molecule needs matching sizes, got %d numbers, %d positions, %d polarizabilities",
			len(numbers), len(positions), len(alp))
	}
	return &Molecule{Name: name, Numbers: numbers, Positions: positions, Polarizabilities: alp, solver: solver}, nil
}

func notCreated(mol *molecule.Molecule) *errors.AppError {
	label := ""
	if mol != nil {
		label = mol.Label()
	}
	return errors.New(errors.CodeKallisto, fmt.Sprintf("The kallisto molecule was not created for the input '%s'", label))
}

// FromMolecule builds the kallisto view of mol.  The molecule must carry a
// conformer; positions are converted from Ångström to Bohr and the
// polarizabilities are fetched from solver.
func FromMolecule(ctx context.Context, solver Solver, mol *molecule.Molecule) (*Molecule, error) {
	if mol == nil || !mol.IsEmbedded() {
		return nil, notCreated(mol)
	}

	numbers := mol.AtomicNumbers()
	positions := make([]molecule.Point3, len(mol.Conformer))
	for i, p := range mol.Conformer {
		positions[i] = p.Scale(1 / Bohr)
	}

	alp, err := solver.Polarizabilities(ctx, numbers, positions)
	if err != nil {
		if errors.IsUnavailable(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, notCreated(mol).WithCause(err)
	}
	if len(alp) != len(numbers) {
		return nil, notCreated(mol).
			WithDetail(fmt.Sprintf("solver returned %d polarizabilities for %d atoms", len(alp), len(numbers)))
	}
	return &Molecule{Name: mol.Name, Numbers: numbers, Positions: positions, Polarizabilities: alp, solver: solver}, nil
}

// ChargesFromMolecule returns the EEQ partial charges of km for the given net
// molecular charge.
func ChargesFromMolecule(ctx context.Context, km *Molecule, netCharge int) ([]float64, error) {
	if km == nil || km.solver == nil {
		return nil, errors.New(errors.CodeKallisto, "kallisto molecule has no solver")
	}
	eeq, err := km.solver.EEQCharges(ctx, km.Numbers, km.Positions, netCharge)
	if err != nil {
		if errors.IsUnavailable(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeKallisto, "EEQ charges could not be computed")
	}
	if len(eeq) != km.NumAtoms() {
		return nil, errors.Newf(errors.CodeKallisto, "solver returned %d EEQ charges for %d atoms", len(eeq), km.NumAtoms())
	}
	return eeq, nil
}

//Personal.AI order the ending
