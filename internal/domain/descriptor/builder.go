package descriptor

import (
	"fmt"
	"math"

	"github.com/turtacn/jazzy-go/internal/domain/kallisto"
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// Builder computes atomic descriptor maps.  It holds only its options and is
// safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder returns a builder with opts.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Options returns the builder's options.
func (b *Builder) Options() Options { return b.opts }

// StrengthScore combines the acceptor term of a lone-pair atom with the donor
// term of a polar hydrogen.
func (b *Builder) StrengthScore(eeq float64, numLP int, sdc, sdx float64) float64 {
	acceptor := b.opts.AcceptorWeight * math.Max(0, -eeq) * float64(numLP)
	donor := b.opts.DonorWeight * math.Max(0, eeq) * (sdc + sdx)
	return acceptor + donor
}

// CalculatePolarStrengthMap annotates every atom of mol with
// z, q, eeq, alp, hyb, num_lp, sdc, sdx and sa.  charges, the kallisto
// polarizabilities and nbrs must all cover exactly the atoms of mol, and nbrs
// must agree with the bond list.  Any atom that cannot be described aborts
// the whole map.
func (b *Builder) CalculatePolarStrengthMap(mol *molecule.Molecule, km *kallisto.Molecule, nbrs molecule.NeighborMap, charges []float64) (dtypes.AtomicMap, error) {
	if mol == nil || km == nil {
		return nil, errors.InvalidParam("molecule and kallisto molecule are required")
	}
	n := mol.NumAtoms()
	if len(charges) != n || len(km.Polarizabilities) != n || len(nbrs) != n {
		return nil, errors.Newf(errors.CodeChargeCountMismatch,
			"inputs do not cover the molecule: %d atoms, %d charges, %d polarizabilities, %d neighbour rows",
			n, len(charges), len(km.Polarizabilities), len(nbrs))
	}
	if err := nbrs.Validate(mol); err != nil {
		return nil, err
	}
	if !mol.IsEmbedded() {
		return nil, errors.New(errors.CodeKallisto, "molecule has no conformer for steric descriptors").
			WithDetail("input=" + mol.Label())
	}

	lonePairs, err := LonePairs(mol)
	if err != nil {
		return nil, err
	}
	hyb := Hybridizations(mol, nbrs, lonePairs)
	sdc, sdx := StericDescriptors(mol, nbrs, b.opts.StericCutoff)

	out := make(dtypes.AtomicMap, n)
	for i, a := range mol.Atoms {
		eeq := b.opts.round(charges[i])
		c, x := b.opts.round(sdc[i]), b.opts.round(sdx[i])
		rec, err := dtypes.NewAtomicRecord(dtypes.AtomicRecord{
			Z:     a.AtomicNumber,
			Q:     a.FormalCharge,
			EEQ:   eeq,
			Alp:   b.opts.round(km.Polarizabilities[i]),
			Hyb:   hyb[i],
			NumLP: lonePairs[i],
			SDC:   c,
			SDX:   x,
			SA:    b.opts.round(b.StrengthScore(eeq, lonePairs[i], c, x)),
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid descriptors for atom").
				WithDetail(fmt.Sprintf("atom=%d z=%d", i, a.AtomicNumber))
		}
		out[i] = rec
	}
	return out, nil
}

//Personal.AI order the ending
