// Package descriptor builds the per-atom hydrogen-bond descriptor map of a
// molecule and reduces it to molecule-level summaries.
package descriptor

import (
	"math"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Options tunes the descriptor builder.
type Options struct {
	// Precision is the number of decimals kept for float descriptors.  A
	// negative value disables rounding.
	Precision int
	// AcceptorWeight scales the lone-pair term of sa.
	AcceptorWeight float64
	// DonorWeight scales the polar-hydrogen term of sa.
	DonorWeight float64
	// StericCutoff is the distance in Ångström beyond which an atom no
	// longer shields a hydrogen.
	StericCutoff float64
}

// DefaultOptions returns the builder defaults.
func DefaultOptions() Options {
	return Options{
		Precision:      4,
		AcceptorWeight: 1.0,
		DonorWeight:    1.0,
		StericCutoff:   4.0,
	}
}

// Validate rejects unusable option values.
func (o Options) Validate() error {
	if o.Precision > 12 {
		return errors.InvalidParam("descriptor precision must be at most 12")
	}
	if o.AcceptorWeight < 0 || o.DonorWeight < 0 {
		return errors.InvalidParam("descriptor weights must not be negative")
	}
	if o.StericCutoff <= 0 {
		return errors.InvalidParam("steric cutoff must be positive")
	}
	return nil
}

func (o Options) round(v float64) float64 {
	if o.Precision < 0 {
		return v
	}
	p := math.Pow10(o.Precision)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

//Personal.AI order the ending
