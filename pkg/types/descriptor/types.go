// Package descriptor defines the per-atom descriptor record, the atomic map
// and the molecule-level aggregates produced by the jazzy pipeline.  These are
// plain data types shared by the domain, application and interface layers.
package descriptor

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Hybridization
// ─────────────────────────────────────────────────────────────────────────────

// Hybridization is the orbital hybridization label of an atom.
type Hybridization string

const (
	HybS           Hybridization = "s"
	HybSP          Hybridization = "sp"
	HybSP2         Hybridization = "sp2"
	HybSP3         Hybridization = "sp3"
	HybSP3D        Hybridization = "sp3d"
	HybSP3D2       Hybridization = "sp3d2"
	HybUnspecified Hybridization = "unspecified"
)

// IsValid reports whether h is one of the known labels.
func (h Hybridization) IsValid() bool {
	switch h {
	case HybS, HybSP, HybSP2, HybSP3, HybSP3D, HybSP3D2, HybUnspecified:
		return true
	}
	return false
}

func (h Hybridization) String() string { return string(h) }

// ─────────────────────────────────────────────────────────────────────────────
// Field names
// ─────────────────────────────────────────────────────────────────────────────

// Descriptor keys, in record order.
const (
	FieldZ     = "z"
	FieldQ     = "q"
	FieldEEQ   = "eeq"
	FieldAlp   = "alp"
	FieldHyb   = "hyb"
	FieldNumLP = "num_lp"
	FieldSDC   = "sdc"
	FieldSDX   = "sdx"
	FieldSA    = "sa"
)

// RecordFields lists every field of an AtomicRecord in its fixed order.
var RecordFields = []string{FieldZ, FieldQ, FieldEEQ, FieldAlp, FieldHyb, FieldNumLP, FieldSDC, FieldSDX, FieldSA}

// NumericFields lists the fields that are summed into a MoleculeVector.
var NumericFields = []string{FieldZ, FieldQ, FieldEEQ, FieldAlp, FieldNumLP, FieldSDC, FieldSDX, FieldSA}

// ─────────────────────────────────────────────────────────────────────────────
// AtomicRecord
// ─────────────────────────────────────────────────────────────────────────────

// AtomicRecord holds the descriptors of one atom.
type AtomicRecord struct {
	// Z is the atomic number.
	Z int `json:"z" yaml:"z"`
	// Q is the formal charge.
	Q int `json:"q" yaml:"q"`
	// EEQ is the partial charge from the selected charge method.
	EEQ float64 `json:"eeq" yaml:"eeq"`
	// Alp is the atomic polarizability.
	Alp float64 `json:"alp" yaml:"alp"`
	// Hyb is the hybridization label.
	Hyb Hybridization `json:"hyb" yaml:"hyb"`
	// NumLP is the number of lone pairs.
	NumLP int `json:"num_lp" yaml:"num_lp"`
	// SDC is the steric accessibility of a C-bound hydrogen.
	SDC float64 `json:"sdc" yaml:"sdc"`
	// SDX is the steric accessibility of a heteroatom-bound hydrogen.
	SDX float64 `json:"sdx" yaml:"sdx"`
	// SA is the combined hydrogen-bond strength estimate.
	SA float64 `json:"sa" yaml:"sa"`
}

// NewAtomicRecord returns r after checking that it describes a valid atom.
func NewAtomicRecord(r AtomicRecord) (AtomicRecord, error) {
	if err := r.Validate(); err != nil {
		return AtomicRecord{}, err
	}
	return r, nil
}

// Validate rejects records that cannot describe a real atom.
func (r AtomicRecord) Validate() error {
	switch {
	case r.Z <= 0:
		return errors.Newf(errors.CodeInvalidAtomicRecord, "atomic number must be positive, got %d", r.Z)
	case r.Alp < 0:
		return errors.Newf(errors.CodeInvalidAtomicRecord, "polarizability must not be negative, got %g", r.Alp)
	case r.NumLP < 0:
		return errors.Newf(errors.CodeInvalidAtomicRecord, "lone pair count must not be negative, got %d", r.NumLP)
	case !r.Hyb.IsValid():
		return errors.Newf(errors.CodeInvalidAtomicRecord, "unknown hybridization %q", string(r.Hyb))
	}
	for _, v := range []float64{r.EEQ, r.Alp, r.SDC, r.SDX, r.SA} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.CodeInvalidAtomicRecord, "descriptor values must be finite")
		}
	}
	return nil
}

// Numeric returns the value of a numeric field.
func (r AtomicRecord) Numeric(field string) (float64, bool) {
	switch field {
	case FieldZ:
		return float64(r.Z), true
	case FieldQ:
		return float64(r.Q), true
	case FieldEEQ:
		return r.EEQ, true
	case FieldAlp:
		return r.Alp, true
	case FieldNumLP:
		return float64(r.NumLP), true
	case FieldSDC:
		return r.SDC, true
	case FieldSDX:
		return r.SDX, true
	case FieldSA:
		return r.SA, true
	}
	return 0, false
}

// Fields returns the record as ordered (name, value) pairs.
func (r AtomicRecord) Fields() []FieldValue {
	return []FieldValue{
		{FieldZ, r.Z},
		{FieldQ, r.Q},
		{FieldEEQ, r.EEQ},
		{FieldAlp, r.Alp},
		{FieldHyb, string(r.Hyb)},
		{FieldNumLP, r.NumLP},
		{FieldSDC, r.SDC},
		{FieldSDX, r.SDX},
		{FieldSA, r.SA},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FieldValue
// ─────────────────────────────────────────────────────────────────────────────

// FieldValue is one (field name, value) pair.  It marshals to a two-element
// JSON array.
type FieldValue struct {
	Field string
	Value interface{}
}

// MarshalJSON encodes the pair as ["field", value].
func (f FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{f.Field, f.Value})
}

// UnmarshalJSON decodes ["field", value].  Numbers decode as float64.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("field value must have 2 elements, got %d", len(raw))
	}
	name, ok := raw[0].(string)
	if !ok {
		return fmt.Errorf("field name must be a string")
	}
	f.Field, f.Value = name, raw[1]
	return nil
}

func (f FieldValue) String() string {
	return fmt.Sprintf("(%s, %v)", f.Field, f.Value)
}

// ─────────────────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────────────────

// AtomicMap is the index-ordered list of records; entry i describes atom i.
type AtomicMap []AtomicRecord

// MoleculeVector maps each numeric field name to its sum over all atoms.
type MoleculeVector map[string]float64

// CondensedRecord is the reduced per-atom view.
type CondensedRecord struct {
	Z     int           `json:"z" yaml:"z"`
	EEQ   float64       `json:"eeq" yaml:"eeq"`
	Alp   float64       `json:"alp" yaml:"alp"`
	Hyb   Hybridization `json:"hyb" yaml:"hyb"`
	NumLP int           `json:"num_lp" yaml:"num_lp"`
}

// MoleculeSummary is the molecule-level aggregate returned next to a map.
type MoleculeSummary struct {
	NumAtoms     int            `json:"num_atoms" yaml:"num_atoms"`
	Vector       MoleculeVector `json:"vector" yaml:"vector"`
	NumDonors    int            `json:"num_donors" yaml:"num_donors"`
	NumAcceptors int            `json:"num_acceptors" yaml:"num_acceptors"`
}

//Personal.AI order the ending
