package kallisto_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/domain/kallisto"
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/internal/testutil"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

func TestFromMolecule_CoordinatesInBohr(t *testing.T) {
	mol := testutil.Tricycle()
	km, err := kallisto.FromMolecule(context.Background(), testutil.NewFakeSolver(), mol)
	require.NoError(t, err)

	require.Equal(t, mol.NumAtoms(), km.NumAtoms())
	for i, p := range mol.Conformer {
		assert.InDelta(t, p.X/kallisto.Bohr, km.Positions[i].X, 1e-9)
		assert.InDelta(t, p.Y/kallisto.Bohr, km.Positions[i].Y, 1e-9)
		assert.InDelta(t, p.Z/kallisto.Bohr, km.Positions[i].Z, 1e-9)
	}
	assert.Equal(t, mol.AtomicNumbers(), km.Numbers)
	assert.Equal(t, testutil.TricyclePolarizabilities, km.Polarizabilities)
}

func TestFromMolecule_KeepsName(t *testing.T) {
	mol := testutil.Tricycle()
	mol.Name = "test1"
	km, err := kallisto.FromMolecule(context.Background(), testutil.NewFakeSolver(), mol)
	require.NoError(t, err)
	assert.Equal(t, "test1", km.Name)
	assert.Equal(t, mol.NumAtoms(), km.NumAtoms())
}

func TestFromMolecule_NotEmbedded(t *testing.T) {
	mol := &molecule.Molecule{
		SMILES: "CC",
		Atoms:  []molecule.Atom{{AtomicNumber: 6}, {AtomicNumber: 6}},
		Bonds:  []molecule.Bond{{Begin: 0, End: 1, Order: molecule.BondSingle}},
	}
	_, err := kallisto.FromMolecule(context.Background(), testutil.NewFakeSolver(), mol)
	require.Error(t, err)

	var ae *errors.AppError
	require.True(t, stderrors.As(err, &ae))
	assert.Equal(t, errors.CodeKallisto, ae.Code)
	assert.Equal(t, "The kallisto molecule was not created for the input 'CC'", ae.Message)
}

func TestFromMolecule_SolverFailure(t *testing.T) {
	solver := testutil.NewFakeSolver()
	solver.Err = stderrors.New("sidecar down")

	_, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))
	assert.ErrorIs(t, err, solver.Err)
}

func TestFromMolecule_SolverUnavailableIsNotAChemistryFailure(t *testing.T) {
	solver := testutil.NewFakeSolver()
	solver.Err = errors.New(errors.CodeToolkitUnavailable, "chemistry toolkit unavailable")

	_, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	assert.Equal(t, errors.CodeToolkitUnavailable, errors.GetCode(err))
	assert.False(t, errors.IsCode(err, errors.CodeKallisto))

	solver.Err = nil
	km, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	require.NoError(t, err)
	solver.EEQErr = errors.New(errors.CodeToolkitUnavailable, "chemistry toolkit unavailable")
	_, err = kallisto.ChargesFromMolecule(context.Background(), km, 0)
	assert.Equal(t, errors.CodeToolkitUnavailable, errors.GetCode(err))
}

func TestFromMolecule_WrongPolarizabilityCount(t *testing.T) {
	solver := testutil.NewFakeSolver()
	solver.Alp[11] = []float64{1, 2, 3}

	_, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))
}

func TestChargesFromMolecule(t *testing.T) {
	solver := testutil.NewFakeSolver()
	km, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	require.NoError(t, err)

	eeq, err := kallisto.ChargesFromMolecule(context.Background(), km, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.045680464157738396, eeq[0], 1e-12)
	assert.InDelta(t, -0.0957233733338991, eeq[1], 1e-12)
	assert.Equal(t, []int{0}, solver.NetCharges)
}

func TestChargesFromMolecule_Failures(t *testing.T) {
	solver := testutil.NewFakeSolver()
	km, err := kallisto.FromMolecule(context.Background(), solver, testutil.Pyridine())
	require.NoError(t, err)

	solver.EEQErr = stderrors.New("no convergence")
	_, err = kallisto.ChargesFromMolecule(context.Background(), km, 0)
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))

	solver.EEQErr = nil
	solver.Charges[11] = []float64{0.1}
	_, err = kallisto.ChargesFromMolecule(context.Background(), km, 0)
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))

	_, err = kallisto.ChargesFromMolecule(context.Background(), nil, 0)
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))
}

func TestNewMolecule_SizeMismatch(t *testing.T) {
	_, err := kallisto.NewMolecule("x", []int{1, 1}, []molecule.Point3{{}}, []float64{1, 1}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))

	km, err := kallisto.NewMolecule("x", []int{1}, []molecule.Point3{{}}, []float64{1}, nil)
	require.NoError(t, err)
	assert.Nil(t, km.Solver())
}

//Personal.AI order the ending
