package descriptor

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/testutil"
	"github.com/turtacn/jazzy-go/pkg/errors"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

func sampleMap() dtypes.AtomicMap {
	return dtypes.AtomicMap{
		{Z: 6, EEQ: -0.1556, Alp: 7.4365, Hyb: dtypes.HybSP3},
		{Z: 8, EEQ: -0.4523, Alp: 5.2, Hyb: dtypes.HybSP2, NumLP: 2, SA: 0.9046},
		{Z: 1, EEQ: 0.25, Alp: 2.1, Hyb: dtypes.HybS, SDX: 0.5, SA: 0.125},
		{Z: 1, EEQ: 0.05, Alp: 2.3, Hyb: dtypes.HybS, SDC: 0.8, SA: 0.04},
	}
}

func TestAggregations_EmptyMap(t *testing.T) {
	const msg = "The atomic map must have length greater than zero."

	_, err := SumAtomicMap(nil)
	require.ErrorIs(t, err, ErrEmptyAtomicMap)
	assert.Equal(t, msg, err.Error())

	_, err = CondenseAtomicMap(dtypes.AtomicMap{})
	require.ErrorIs(t, err, ErrEmptyAtomicMap)

	_, err = ConvertMapToTuples(nil)
	require.ErrorIs(t, err, ErrEmptyAtomicMap)

	_, err = NewMoleculeSummary(nil)
	require.ErrorIs(t, err, ErrEmptyAtomicMap)

	// Not an application error, so translation leaves it alone.
	var ae *errors.AppError
	assert.False(t, stderrors.As(err, &ae))
	assert.Same(t, ErrEmptyAtomicMap, errors.Translate(err))
}

func TestSumAtomicMap(t *testing.T) {
	vec, err := SumAtomicMap(sampleMap())
	require.NoError(t, err)

	assert.Len(t, vec, len(dtypes.NumericFields))
	assert.NotContains(t, vec, dtypes.FieldHyb)
	assert.Equal(t, 16.0, vec[dtypes.FieldZ])
	assert.Equal(t, 0.0, vec[dtypes.FieldQ])
	assert.InDelta(t, -0.3079, vec[dtypes.FieldEEQ], 1e-9)
	assert.InDelta(t, 17.0365, vec[dtypes.FieldAlp], 1e-9)
	assert.Equal(t, 2.0, vec[dtypes.FieldNumLP])
	assert.InDelta(t, 0.8, vec[dtypes.FieldSDC], 1e-9)
	assert.InDelta(t, 0.5, vec[dtypes.FieldSDX], 1e-9)
	assert.InDelta(t, 1.0696, vec[dtypes.FieldSA], 1e-9)
}

func TestSumAtomicMap_SingleAtom(t *testing.T) {
	vec, err := SumAtomicMap(dtypes.AtomicMap{{Z: 9, Q: -1, Hyb: dtypes.HybSP3, NumLP: 4}})
	require.NoError(t, err)
	assert.Equal(t, -1.0, vec[dtypes.FieldQ])
	assert.Equal(t, 4.0, vec[dtypes.FieldNumLP])
	assert.Contains(t, vec, dtypes.FieldSA)
	assert.Zero(t, vec[dtypes.FieldSA])
}

func TestCondenseAtomicMap(t *testing.T) {
	f := newFixture(t, testutil.Tricycle())
	out, err := CondenseAtomicMap(f.build(t))
	require.NoError(t, err)
	require.Len(t, out, 23)

	assert.Equal(t, dtypes.CondensedRecord{
		Z: 6, EEQ: -0.1556, Alp: 7.4365, Hyb: dtypes.HybSP3, NumLP: 0,
	}, out[0])
	assert.Equal(t, dtypes.CondensedRecord{
		Z: 6, EEQ: 0.1174, Alp: 8.4498, Hyb: dtypes.HybSP2, NumLP: 0,
	}, out[3])
}

func TestConvertMapToTuples(t *testing.T) {
	out, err := ConvertMapToTuples(sampleMap())
	require.NoError(t, err)
	require.Len(t, out, 4)

	first := out[0]
	require.Len(t, first, len(dtypes.RecordFields))
	for i, fv := range first {
		assert.Equal(t, dtypes.RecordFields[i], fv.Field)
	}
	assert.Equal(t, dtypes.FieldValue{Field: dtypes.FieldZ, Value: 6}, first[0])
	assert.Equal(t, dtypes.FieldValue{Field: dtypes.FieldHyb, Value: dtypes.HybSP3}, first[4])
	assert.Equal(t, dtypes.FieldValue{Field: dtypes.FieldSA, Value: 0.9046}, out[1][8])
}

func TestNewMoleculeSummary(t *testing.T) {
	s, err := NewMoleculeSummary(sampleMap())
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumAtoms)
	assert.Equal(t, 2, s.NumDonors)
	assert.Equal(t, 1, s.NumAcceptors)
	assert.Equal(t, 16.0, s.Vector[dtypes.FieldZ])
}

func TestNewMoleculeSummary_Paracetamol(t *testing.T) {
	f := newFixture(t, testutil.Paracetamol())
	s, err := NewMoleculeSummary(f.build(t))
	require.NoError(t, err)
	assert.Equal(t, 20, s.NumAtoms)
	// every hydrogen is sterically accessible
	assert.Equal(t, 9, s.NumDonors)
	assert.Equal(t, 3, s.NumAcceptors)
}

//Personal.AI order the ending
