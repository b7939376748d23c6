package descriptor

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
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

type fixture struct {
	mol     *molecule.Molecule
	km      *kallisto.Molecule
	nbrs    molecule.NeighborMap
	charges []float64
}

func newFixture(t *testing.T, mol *molecule.Molecule) fixture {
	t.Helper()
	ctx := context.Background()
	km, err := kallisto.FromMolecule(ctx, testutil.NewFakeSolver(), mol)
	require.NoError(t, err)
	eeq, err := kallisto.ChargesFromMolecule(ctx, km, mol.NetCharge())
	require.NoError(t, err)
	return fixture{mol: mol, km: km, nbrs: molecule.GetCovalentAtomIdxs(mol), charges: eeq}
}

func (f fixture) build(t *testing.T) dtypes.AtomicMap {
	t.Helper()
	m, err := NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(f.mol, f.km, f.nbrs, f.charges)
	require.NoError(t, err)
	return m
}

func TestCalculatePolarStrengthMap_Tricycle(t *testing.T) {
	f := newFixture(t, testutil.Tricycle())
	m := f.build(t)
	require.Len(t, m, 23)

	assert.Equal(t, dtypes.AtomicRecord{
		Z: 6, Q: 0, EEQ: -0.1556, Alp: 7.4365, Hyb: dtypes.HybSP3, NumLP: 0,
	}, m[0])
	assert.Equal(t, dtypes.AtomicRecord{
		Z: 6, Q: 0, EEQ: 0.1174, Alp: 8.4498, Hyb: dtypes.HybSP2, NumLP: 0,
	}, m[3])

	n := m[10]
	assert.Equal(t, 7, n.Z)
	assert.Equal(t, dtypes.HybSP2, n.Hyb)
	assert.Equal(t, 1, n.NumLP)
	assert.InDelta(t, 0.1511, n.SA, 1e-9)
}

func TestCalculatePolarStrengthMap_Invariants(t *testing.T) {
	for _, build := range []func() *molecule.Molecule{testutil.Pyridine, testutil.Tricycle, testutil.Paracetamol} {
		f := newFixture(t, build())
		m := f.build(t)
		require.Len(t, m, f.mol.NumAtoms())

		for i, rec := range m {
			atom := f.mol.Atoms[i]
			assert.Equal(t, atom.AtomicNumber, rec.Z)
			assert.Equal(t, atom.FormalCharge, rec.Q)
			assert.GreaterOrEqual(t, rec.Alp, 0.0)
			assert.GreaterOrEqual(t, rec.NumLP, 0)
			assert.True(t, rec.Hyb.IsValid())
			assert.NoError(t, rec.Validate())

			if atom.IsHydrogen() {
				assert.Equal(t, dtypes.HybS, rec.Hyb)
				assert.True(t, rec.SDC > 0 || rec.SDX > 0, "hydrogen %d should be accessible", i)
				assert.LessOrEqual(t, rec.SDC+rec.SDX, 1.0)
			} else {
				assert.Zero(t, rec.SDC)
				assert.Zero(t, rec.SDX)
			}
			if rec.Z == 6 && rec.NumLP == 0 {
				assert.Zero(t, rec.SA, "carbon %d has no acceptor term", i)
			}
		}
	}
}

func TestCalculatePolarStrengthMap_Paracetamol(t *testing.T) {
	f := newFixture(t, testutil.Paracetamol())
	m := f.build(t)

	carbonylO, amideN, phenolO := m[2], m[3], m[10]
	assert.Equal(t, 2, carbonylO.NumLP)
	assert.Equal(t, dtypes.HybSP2, carbonylO.Hyb)
	assert.InDelta(t, 0.9046, carbonylO.SA, 1e-9)

	assert.Equal(t, 1, amideN.NumLP)
	assert.Equal(t, dtypes.HybSP2, amideN.Hyb)
	assert.InDelta(t, 0.3961, amideN.SA, 1e-9)

	assert.Equal(t, 2, phenolO.NumLP)
	assert.Equal(t, dtypes.HybSP2, phenolO.Hyb)
	assert.InDelta(t, 0.989, phenolO.SA, 1e-9)

	// N-H and O-H hydrogens are polar, the methyl hydrogens are not.
	assert.Greater(t, m[14].SDX, 0.0)
	assert.Zero(t, m[14].SDC)
	assert.Greater(t, m[19].SDX, 0.0)
	assert.Greater(t, m[19].SA, 0.0)
	assert.Greater(t, m[11].SDC, 0.0)
	assert.Zero(t, m[11].SDX)

	vec, err := SumAtomicMap(m)
	require.NoError(t, err)
	assert.InDelta(t, 2.5005, vec[dtypes.FieldSA], 1e-4)
}

func TestCalculatePolarStrengthMap_IsDeterministic(t *testing.T) {
	f := newFixture(t, testutil.Paracetamol())
	assert.Equal(t, f.build(t), f.build(t))
}

func TestCalculatePolarStrengthMap_CountMismatch(t *testing.T) {
	f := newFixture(t, testutil.Pyridine())
	b := NewBuilder(DefaultOptions())

	_, err := b.CalculatePolarStrengthMap(f.mol, f.km, f.nbrs, f.charges[:10])
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeChargeCountMismatch))
	assert.Equal(t, errors.CodeChargeCountMismatch, errors.GetCode(errors.Translate(err)))

	_, err = b.CalculatePolarStrengthMap(f.mol, f.km, f.nbrs[:5], f.charges)
	assert.True(t, errors.IsCode(err, errors.CodeChargeCountMismatch))
}

func TestCalculatePolarStrengthMap_RejectsBadNeighbourMap(t *testing.T) {
	rows := map[string][]int{
		"out of range": {99},
		"self loop":    {6},
		"wrong parent": {1},
	}
	for name, row := range rows {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, testutil.Pyridine())
			f.nbrs[6] = row

			var m dtypes.AtomicMap
			var err error
			require.NotPanics(t, func() {
				m, err = NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(f.mol, f.km, f.nbrs, f.charges)
			})
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
		})
	}
}

func TestCalculatePolarStrengthMap_NotEmbedded(t *testing.T) {
	f := newFixture(t, testutil.Pyridine())
	f.mol.Conformer = nil

	_, err := NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(f.mol, f.km, f.nbrs, f.charges)
	assert.True(t, errors.IsCode(err, errors.CodeKallisto))
}

func TestCalculatePolarStrengthMap_NilInputs(t *testing.T) {
	_, err := NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(nil, nil, nil, nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestCalculatePolarStrengthMap_NegativeLonePairsAbort(t *testing.T) {
	// A carbon with five hydrogens.
	atoms := []molecule.Atom{{AtomicNumber: 6}}
	var bonds []molecule.Bond
	conf := []molecule.Point3{{}}
	for k := 0; k < 5; k++ {
		atoms = append(atoms, molecule.Atom{AtomicNumber: 1})
		bonds = append(bonds, molecule.Bond{Begin: 0, End: k + 1, Order: molecule.BondSingle})
		conf = append(conf, molecule.Point3{X: float64(k + 1)})
	}
	mol := &molecule.Molecule{SMILES: "[CH5]", Atoms: atoms, Bonds: bonds, Conformer: conf}
	alp := []float64{7, 2, 2, 2, 2, 2}
	km, err := kallisto.NewMolecule("", mol.AtomicNumbers(), conf, alp, nil)
	require.NoError(t, err)

	m, err := NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(mol, km, molecule.GetCovalentAtomIdxs(mol), make([]float64, 6))
	require.Error(t, err)
	assert.Nil(t, m)

	var ae *errors.AppError
	require.True(t, stderrors.As(err, &ae))
	assert.Equal(t, errors.CodeNegativeLonePairs, ae.Code)
	assert.Equal(t, "Atom 0 (Z=6) has a negative number of lone pairs.", ae.Message)

	translated := errors.Translate(err)
	assert.Equal(t, errors.CodeJazzy, errors.GetCode(translated))
	assert.Contains(t, translated.Error(), "Atom 0 (Z=6) has a negative number of lone pairs.")
}

func TestCalculatePolarStrengthMap_InvalidPolarizability(t *testing.T) {
	f := newFixture(t, testutil.Pyridine())
	f.km.Polarizabilities = append([]float64(nil), f.km.Polarizabilities...)
	f.km.Polarizabilities[2] = -1

	_, err := NewBuilder(DefaultOptions()).CalculatePolarStrengthMap(f.mol, f.km, f.nbrs, f.charges)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidAtomicRecord))
}

func TestStrengthScore(t *testing.T) {
	b := NewBuilder(DefaultOptions())
	assert.Zero(t, b.StrengthScore(0, 0, 0, 0))
	assert.Zero(t, b.StrengthScore(-0.3, 0, 0, 0), "no lone pairs, no acceptor term")
	assert.Zero(t, b.StrengthScore(0.2, 2, 0, 0), "positive charge, no acceptor term")
	assert.InDelta(t, 0.6, b.StrengthScore(-0.3, 2, 0, 0), 1e-12)
	assert.InDelta(t, 0.1, b.StrengthScore(0.2, 0, 0, 0.5), 1e-12)

	weighted := NewBuilder(Options{Precision: 4, AcceptorWeight: 2, DonorWeight: 0.5, StericCutoff: 4})
	assert.InDelta(t, 1.2+0.05, weighted.StrengthScore(-0.3, 2, 0, 0)+weighted.StrengthScore(0.2, 0, 0, 0.5), 1e-12)
}

func TestOptions(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, Options{Precision: 4, StericCutoff: 0}.Validate())
	assert.Error(t, Options{Precision: 4, AcceptorWeight: -1, StericCutoff: 4}.Validate())
	assert.Error(t, Options{Precision: 20, StericCutoff: 4}.Validate())

	o := DefaultOptions()
	assert.Equal(t, -0.1556, o.round(-0.155619))
	assert.Equal(t, 0.0, o.round(-0.00001))
	o.Precision = -1
	assert.Equal(t, -0.155619, o.round(-0.155619))
	assert.Equal(t, NewBuilder(o).Options(), o)
}

//Personal.AI order the ending
