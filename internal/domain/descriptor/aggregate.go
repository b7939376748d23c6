package descriptor

import (
	stderrors "errors"

	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// ErrEmptyAtomicMap is returned by every aggregation of an empty map.
var ErrEmptyAtomicMap = stderrors.New("The atomic map must have length greater than zero.")

// SumAtomicMap adds up every numeric field over all atoms.
func SumAtomicMap(m dtypes.AtomicMap) (dtypes.MoleculeVector, error) {
	if len(m) == 0 {
		return nil, ErrEmptyAtomicMap
	}
	vec := make(dtypes.MoleculeVector, len(dtypes.NumericFields))
	for _, f := range dtypes.NumericFields {
		vec[f] = 0
	}
	for _, rec := range m {
		for _, f := range dtypes.NumericFields {
			v, _ := rec.Numeric(f)
			vec[f] += v
		}
	}
	return vec, nil
}

// CondenseAtomicMap keeps z, eeq, alp, hyb and num_lp of every atom.
func CondenseAtomicMap(m dtypes.AtomicMap) ([]dtypes.CondensedRecord, error) {
	if len(m) == 0 {
		return nil, ErrEmptyAtomicMap
	}
	out := make([]dtypes.CondensedRecord, len(m))
	for i, rec := range m {
		out[i] = dtypes.CondensedRecord{
			Z:     rec.Z,
			EEQ:   rec.EEQ,
			Alp:   rec.Alp,
			Hyb:   rec.Hyb,
			NumLP: rec.NumLP,
		}
	}
	return out, nil
}

// ConvertMapToTuples returns each record as ordered (field, value) pairs.
func ConvertMapToTuples(m dtypes.AtomicMap) ([][]dtypes.FieldValue, error) {
	if len(m) == 0 {
		return nil, ErrEmptyAtomicMap
	}
	out := make([][]dtypes.FieldValue, len(m))
	for i, rec := range m {
		out[i] = rec.Fields()
	}
	return out, nil
}

// NewMoleculeSummary sums the map and counts donor hydrogens (sdc+sdx > 0)
// and acceptor atoms (lone pairs with sa > 0).
func NewMoleculeSummary(m dtypes.AtomicMap) (dtypes.MoleculeSummary, error) {
	vec, err := SumAtomicMap(m)
	if err != nil {
		return dtypes.MoleculeSummary{}, err
	}
	s := dtypes.MoleculeSummary{NumAtoms: len(m), Vector: vec}
	for _, rec := range m {
		if rec.SDC+rec.SDX > 0 {
			s.NumDonors++
		}
		if rec.NumLP > 0 && rec.SA > 0 {
			s.NumAcceptors++
		}
	}
	return s, nil
}

//Personal.AI order the ending
