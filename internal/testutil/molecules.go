// Package testutil provides molecule fixtures and test doubles for the
// descriptor pipeline.
package testutil

import (
	"context"
	"math"
	"sync"

	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Reference values for pyridine (c1ccccn1, atoms C0..C4, N5, H6..H10).
var (
	PyridineEEQ = []float64{
		0.045680464157738396, -0.0957233733338991, -0.09286581882421709,
		-0.09572340650673523, 0.045680551016580355, -0.38330394049694483,
		0.12270838091939198, 0.10919952318565886, 0.11243965258629614,
		0.10919954271115259, 0.1227084245849779,
	}
	PyridineMMFF94 = []float64{0.16, -0.15, -0.15, -0.15, 0.16, -0.62, 0.15, 0.15, 0.15, 0.15, 0.15}

	PyridinePolarizabilities = []float64{
		8.1452, 8.2911, 8.3002, 8.2911, 8.1452, 6.9918,
		2.2971, 2.3154, 2.3167, 2.3154, 2.2971,
	}
)

// Pyridine returns an embedded pyridine with a regular ring geometry.
func Pyridine() *molecule.Molecule {
	atoms := []molecule.Atom{
		{AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 7, IsAromatic: true},
	}
	var bonds []molecule.Bond
	for i := 0; i < 6; i++ {
		bonds = append(bonds, molecule.Bond{Begin: i, End: (i + 1) % 6, Order: molecule.BondAromatic})
	}
	conf := make([]molecule.Point3, 0, 11)
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		conf = append(conf, molecule.Point3{X: 1.39 * math.Cos(a), Y: 1.39 * math.Sin(a)})
	}
	for i := 0; i < 5; i++ {
		atoms = append(atoms, molecule.Atom{AtomicNumber: 1})
		bonds = append(bonds, molecule.Bond{Begin: i, End: 6 + i, Order: molecule.BondSingle})
		a := float64(i) * math.Pi / 3
		conf = append(conf, molecule.Point3{X: 2.47 * math.Cos(a), Y: 2.47 * math.Sin(a)})
	}
	return &molecule.Molecule{Name: "pyridine", SMILES: "c1ccccn1", Atoms: atoms, Bonds: bonds, Conformer: conf}
}

// TricycleSMILES is 1,2,5,6-tetrahydro-4H-pyrrolo[3,2,1-ij]quinoline.
const TricycleSMILES = "C1CC2=C3C(=CC=C2)C(=CN3C1)"

// Reference values for the tricycle at atoms 0 and 3; the remaining entries
// are plausible placeholders.
var (
	TricycleEEQ = []float64{
		-0.155619, -0.182713, -0.051283, 0.117412, -0.061504, -0.112961,
		-0.101837, -0.119774, -0.165318, -0.003271, -0.151122, -0.027806,
		0.083121, 0.083121, 0.079901, 0.079901, 0.101208, 0.098770,
		0.099311, 0.108445, 0.121379, 0.080215, 0.080215,
	}
	TricyclePolarizabilities = []float64{
		7.436512, 7.512033, 8.380129, 8.449812, 8.401276, 8.317790,
		8.302113, 8.310442, 8.333104, 8.214570, 7.012873, 7.301442,
		2.321109, 2.321109, 2.318700, 2.318700, 2.300410, 2.296611,
		2.301554, 2.289012, 2.275310, 2.328117, 2.328117,
	}
)

// Tricycle returns the tricycle with explicit hydrogens.  The benzene and
// pyrrole rings are aromatic; hydrogens follow the heavy atoms.
func Tricycle() *molecule.Molecule {
	heavy := []molecule.Atom{
		{AtomicNumber: 6}, {AtomicNumber: 6},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 7, IsAromatic: true}, {AtomicNumber: 6},
	}
	ar := molecule.BondAromatic
	bonds := []molecule.Bond{
		{Begin: 0, End: 1, Order: molecule.BondSingle},
		{Begin: 1, End: 2, Order: molecule.BondSingle},
		{Begin: 2, End: 3, Order: ar},
		{Begin: 3, End: 4, Order: ar},
		{Begin: 4, End: 5, Order: ar},
		{Begin: 5, End: 6, Order: ar},
		{Begin: 6, End: 7, Order: ar},
		{Begin: 7, End: 2, Order: ar},
		{Begin: 4, End: 8, Order: ar},
		{Begin: 8, End: 9, Order: ar},
		{Begin: 9, End: 10, Order: ar},
		{Begin: 10, End: 3, Order: ar},
		{Begin: 10, End: 11, Order: molecule.BondSingle},
		{Begin: 11, End: 0, Order: molecule.BondSingle},
	}
	hCounts := []int{2, 2, 0, 0, 0, 1, 1, 1, 1, 1, 0, 2}
	m := withHydrogens(heavy, bonds, hCounts)
	m.SMILES = TricycleSMILES
	return m
}

// ParacetamolSMILES is acetaminophen.
const ParacetamolSMILES = "CC(=O)NC1=CC=C(C=C1)O"

// Paracetamol returns acetaminophen with explicit hydrogens.  Atom 2 is the
// carbonyl oxygen, 3 the amide nitrogen and 10 the phenol oxygen.
func Paracetamol() *molecule.Molecule {
	heavy := []molecule.Atom{
		{AtomicNumber: 6}, {AtomicNumber: 6}, {AtomicNumber: 8}, {AtomicNumber: 7},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 6, IsAromatic: true}, {AtomicNumber: 6, IsAromatic: true},
		{AtomicNumber: 8},
	}
	ar := molecule.BondAromatic
	bonds := []molecule.Bond{
		{Begin: 0, End: 1, Order: molecule.BondSingle},
		{Begin: 1, End: 2, Order: molecule.BondDouble},
		{Begin: 1, End: 3, Order: molecule.BondSingle},
		{Begin: 3, End: 4, Order: molecule.BondSingle},
		{Begin: 4, End: 5, Order: ar},
		{Begin: 5, End: 6, Order: ar},
		{Begin: 6, End: 7, Order: ar},
		{Begin: 7, End: 8, Order: ar},
		{Begin: 8, End: 9, Order: ar},
		{Begin: 9, End: 4, Order: ar},
		{Begin: 7, End: 10, Order: molecule.BondSingle},
	}
	hCounts := []int{3, 0, 0, 1, 0, 1, 1, 0, 1, 1, 1}
	m := withHydrogens(heavy, bonds, hCounts)
	m.SMILES = ParacetamolSMILES
	return m
}

// ParacetamolEEQ holds plausible EEQ charges for Paracetamol().
var ParacetamolEEQ = []float64{
	-0.2012, 0.3187, -0.4523, -0.3961, 0.0701, -0.0913, -0.0821, 0.1270,
	-0.0954, -0.0832, -0.4945,
	0.0811, 0.0811, 0.0811, 0.2214, 0.1002, 0.0991, 0.0987, 0.0974, 0.2987,
}

// ParacetamolPolarizabilities holds plausible polarizabilities.
var ParacetamolPolarizabilities = []float64{
	7.5012, 7.1130, 5.4121, 6.8413, 8.3010, 8.2914, 8.2879, 8.1012,
	8.2866, 8.2950, 5.3997,
	2.3101, 2.3101, 2.3101, 2.0144, 2.3012, 2.3020, 2.3011, 2.3009, 1.9876,
}

// withHydrogens appends hCounts[i] hydrogens to heavy atom i, in heavy-atom
// order, and lays the molecule out on a grid so every atom has a distinct
// position.
func withHydrogens(heavy []molecule.Atom, bonds []molecule.Bond, hCounts []int) *molecule.Molecule {
	offsets := []molecule.Point3{
		{X: 0, Y: 0, Z: 1.09},
		{X: 0, Y: 0, Z: -1.09},
		{X: 0.63, Y: 0.63, Z: 0.63},
	}
	atoms := append([]molecule.Atom(nil), heavy...)
	bonds = append([]molecule.Bond(nil), bonds...)
	conf := make([]molecule.Point3, 0, len(heavy))
	for i := range heavy {
		conf = append(conf, molecule.Point3{X: 1.5 * float64(i%4), Y: 1.5 * float64(i/4)})
	}
	for i, n := range hCounts {
		for k := 0; k < n; k++ {
			idx := len(atoms)
			atoms = append(atoms, molecule.Atom{AtomicNumber: 1})
			bonds = append(bonds, molecule.Bond{Begin: i, End: idx, Order: molecule.BondSingle})
			o := offsets[k]
			conf = append(conf, molecule.Point3{X: conf[i].X + o.X, Y: conf[i].Y + o.Y, Z: o.Z})
		}
	}
	return &molecule.Molecule{Atoms: atoms, Bonds: bonds, Conformer: conf}
}

// ─────────────────────────────────────────────────────────────────────────────
// Fake collaborators
// ─────────────────────────────────────────────────────────────────────────────

// FakeToolkit serves fixture molecules by SMILES.
type FakeToolkit struct {
	mu        sync.Mutex
	Molecules map[string]func() *molecule.Molecule
	Charges   map[string][]float64
	Err       error
	ChargeErr error
	Calls     []string
}

// NewFakeToolkit returns a toolkit that knows the fixture molecules.
func NewFakeToolkit() *FakeToolkit {
	return &FakeToolkit{
		Molecules: map[string]func() *molecule.Molecule{
			"c1ccccn1":        Pyridine,
			TricycleSMILES:    Tricycle,
			ParacetamolSMILES: Paracetamol,
		},
		Charges: map[string][]float64{
			"c1ccccn1": PyridineMMFF94,
		},
	}
}

func (f *FakeToolkit) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// FromSMILES returns a fresh copy of the fixture registered for smiles.
func (f *FakeToolkit) FromSMILES(ctx context.Context, smiles string, method molecule.MinimisationMethod) (*molecule.Molecule, error) {
	f.record("FromSMILES:" + smiles)
	if f.Err != nil {
		return nil, f.Err
	}
	build, ok := f.Molecules[smiles]
	if !ok {
		return nil, errors.New(errors.CodeInvalidSMILES, "unknown fixture").WithDetail("smiles=" + smiles)
	}
	return build(), nil
}

// MMFF94Charges returns the charges registered for the molecule's SMILES.
func (f *FakeToolkit) MMFF94Charges(ctx context.Context, mol *molecule.Molecule) ([]float64, error) {
	f.record("MMFF94Charges:" + mol.SMILES)
	if f.ChargeErr != nil {
		return nil, f.ChargeErr
	}
	return append([]float64(nil), f.Charges[mol.SMILES]...), nil
}

// FakeSolver returns fixed vectors for every molecule with a matching atom
// count.
type FakeSolver struct {
	mu         sync.Mutex
	Alp        map[int][]float64
	Charges    map[int][]float64
	Err        error
	EEQErr     error
	NetCharges []int
	// Block makes Polarizabilities wait for ctx to end.
	Block bool
}

// NewFakeSolver returns a solver that knows the fixture molecules.
func NewFakeSolver() *FakeSolver {
	return &FakeSolver{
		Alp: map[int][]float64{
			11: PyridinePolarizabilities,
			23: TricyclePolarizabilities,
			20: ParacetamolPolarizabilities,
		},
		Charges: map[int][]float64{
			11: PyridineEEQ,
			23: TricycleEEQ,
			20: ParacetamolEEQ,
		},
	}
}

// Polarizabilities implements kallisto.Solver.
func (s *FakeSolver) Polarizabilities(ctx context.Context, numbers []int, positions []molecule.Point3) ([]float64, error) {
	if s.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]float64(nil), s.Alp[len(numbers)]...), nil
}

// EEQCharges implements kallisto.Solver.
func (s *FakeSolver) EEQCharges(ctx context.Context, numbers []int, positions []molecule.Point3, netCharge int) ([]float64, error) {
	s.mu.Lock()
	s.NetCharges = append(s.NetCharges, netCharge)
	s.mu.Unlock()
	if s.EEQErr != nil {
		return nil, s.EEQErr
	}
	return append([]float64(nil), s.Charges[len(numbers)]...), nil
}

//Personal.AI order the ending
