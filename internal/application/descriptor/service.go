// Package descriptor provides the application-level service for the
// hydrogen-bond descriptor pipeline.  It sits between the HTTP, CLI and
// worker surfaces and the domain packages, and reports chemistry failures
// as the umbrella JAZZY_001 error.
package descriptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/jazzy-go/internal/domain/charge"
	domainDesc "github.com/turtacn/jazzy-go/internal/domain/descriptor"
	"github.com/turtacn/jazzy-go/internal/domain/kallisto"
	domainMol "github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jazzy-go/pkg/errors"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// DefaultBatchConcurrency bounds AnalyzeBatch when Config leaves it unset.
const DefaultBatchConcurrency = 4

// Service defines the descriptor application operations.
type Service interface {
	MoleculeFromSMILES(ctx context.Context, smiles, minimisation string) (*domainMol.Molecule, error)
	AdaptMolecule(ctx context.Context, mol *domainMol.Molecule) (*kallisto.Molecule, error)
	ChargesFromKallisto(ctx context.Context, km *kallisto.Molecule, netCharge int) ([]float64, error)
	ChargesByMethod(ctx context.Context, mol *domainMol.Molecule, km *kallisto.Molecule, method string) ([]float64, error)
	CovalentAtomIdxs(mol *domainMol.Molecule) (domainMol.NeighborMap, error)
	PolarStrengthMap(mol *domainMol.Molecule, km *kallisto.Molecule, nbrs domainMol.NeighborMap, charges []float64) (dtypes.AtomicMap, error)

	SumAtomicMap(m dtypes.AtomicMap) (dtypes.MoleculeVector, error)
	CondenseAtomicMap(m dtypes.AtomicMap) ([]dtypes.CondensedRecord, error)
	ConvertMapToTuples(m dtypes.AtomicMap) ([][]dtypes.FieldValue, error)

	Analyze(ctx context.Context, req *Request) (*Result, error)
	AnalyzeBatch(ctx context.Context, reqs []*Request) []*BatchItem
}

// Config tunes the service.
type Config struct {
	Options             domainDesc.Options
	DefaultChargeMethod charge.Method
	BatchConcurrency    int
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Options:             domainDesc.DefaultOptions(),
		DefaultChargeMethod: charge.MethodKallisto,
		BatchConcurrency:    DefaultBatchConcurrency,
	}
}

// Request asks for the descriptors of one molecule.
type Request struct {
	ID                 string `json:"id,omitempty" yaml:"id,omitempty"`
	SMILES             string `json:"smiles" yaml:"smiles"`
	MinimisationMethod string `json:"minimisation_method,omitempty" yaml:"minimisation_method,omitempty"`
	ChargeMethod       string `json:"charge_method,omitempty" yaml:"charge_method,omitempty"`
}

// Result is the full descriptor output for one molecule.
type Result struct {
	ID           string                 `json:"id"`
	SMILES       string                 `json:"smiles"`
	ChargeMethod string                 `json:"charge_method"`
	AtomicMap    dtypes.AtomicMap       `json:"atomic_map"`
	Summary      dtypes.MoleculeSummary `json:"summary"`
	Neighbors    domainMol.NeighborMap  `json:"neighbors"`
}

// BatchItem pairs one batch input with its result or error.
type BatchItem struct {
	Index   int
	Request *Request
	Result  *Result
	Err     error
}

type serviceImpl struct {
	toolkit    domainMol.Toolkit
	solver     kallisto.Solver
	dispatcher *charge.Dispatcher
	builder    *domainDesc.Builder
	cfg        Config
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// NewService creates the descriptor service.  metrics may be nil.
func NewService(toolkit domainMol.Toolkit, solver kallisto.Solver, cfg Config, logger logging.Logger, metrics *prometheus.AppMetrics) (Service, error) {
	if toolkit == nil || solver == nil {
		return nil, errors.InvalidParam("toolkit and solver are required")
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	if cfg.DefaultChargeMethod == "" {
		cfg.DefaultChargeMethod = charge.MethodKallisto
	}
	if !cfg.DefaultChargeMethod.IsValid() {
		return nil, &charge.UnsupportedMethodError{Method: cfg.DefaultChargeMethod}
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = DefaultBatchConcurrency
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		toolkit:    toolkit,
		solver:     solver,
		dispatcher: charge.NewDispatcher(toolkit),
		builder:    domainDesc.NewBuilder(cfg.Options),
		cfg:        cfg,
		logger:     logger.Named("descriptor"),
		metrics:    metrics,
	}, nil
}

// observe times one stage and records its outcome.
func (s *serviceImpl) observe(ctx context.Context, stage string, start time.Time, err error) {
	code := ""
	if err != nil {
		code = string(errors.GetCode(err))
		if charge.IsUnsupportedMethod(err) {
			code = "UNSUPPORTED_METHOD"
		}
	}
	prometheus.RecordStage(s.metrics, stage, time.Since(start), code)
	logging.LogStage(s.logger.WithContext(ctx), stage, start, err)
}

func (s *serviceImpl) MoleculeFromSMILES(ctx context.Context, smiles, minimisation string) (*domainMol.Molecule, error) {
	start := time.Now()
	mol, err := errors.Guard2(func() (*domainMol.Molecule, error) {
		method, err := domainMol.ParseMinimisationMethod(minimisation)
		if err != nil {
			return nil, err
		}
		return domainMol.FromSMILES(ctx, s.toolkit, smiles, method)
	})
	s.observe(ctx, prometheus.StageAdapt, start, err)
	return mol, err
}

func (s *serviceImpl) AdaptMolecule(ctx context.Context, mol *domainMol.Molecule) (*kallisto.Molecule, error) {
	start := time.Now()
	km, err := errors.Guard2(func() (*kallisto.Molecule, error) {
		return kallisto.FromMolecule(ctx, s.solver, mol)
	})
	s.observe(ctx, prometheus.StageAdapt, start, err)
	return km, err
}

func (s *serviceImpl) ChargesFromKallisto(ctx context.Context, km *kallisto.Molecule, netCharge int) ([]float64, error) {
	start := time.Now()
	q, err := errors.Guard2(func() ([]float64, error) {
		return kallisto.ChargesFromMolecule(ctx, km, netCharge)
	})
	s.observe(ctx, prometheus.StageCharges, start, err)
	return q, err
}

func (s *serviceImpl) ChargesByMethod(ctx context.Context, mol *domainMol.Molecule, km *kallisto.Molecule, method string) ([]float64, error) {
	start := time.Now()
	q, err := errors.Guard2(func() ([]float64, error) {
		return s.dispatcher.ChargesByMethod(ctx, mol, km, charge.Method(method))
	})
	s.observe(ctx, prometheus.StageCharges, start, err)
	return q, err
}

func (s *serviceImpl) CovalentAtomIdxs(mol *domainMol.Molecule) (domainMol.NeighborMap, error) {
	return errors.Guard2(func() (domainMol.NeighborMap, error) {
		if mol == nil {
			return nil, errors.InvalidParam("molecule is required")
		}
		return domainMol.GetCovalentAtomIdxs(mol), nil
	})
}

func (s *serviceImpl) PolarStrengthMap(mol *domainMol.Molecule, km *kallisto.Molecule, nbrs domainMol.NeighborMap, charges []float64) (dtypes.AtomicMap, error) {
	start := time.Now()
	m, err := errors.Guard2(func() (dtypes.AtomicMap, error) {
		return s.builder.CalculatePolarStrengthMap(mol, km, nbrs, charges)
	})
	s.observe(context.Background(), prometheus.StageDescriptor, start, err)
	return m, err
}

func (s *serviceImpl) SumAtomicMap(m dtypes.AtomicMap) (dtypes.MoleculeVector, error) {
	return domainDesc.SumAtomicMap(m)
}

func (s *serviceImpl) CondenseAtomicMap(m dtypes.AtomicMap) ([]dtypes.CondensedRecord, error) {
	return domainDesc.CondenseAtomicMap(m)
}

func (s *serviceImpl) ConvertMapToTuples(m dtypes.AtomicMap) ([][]dtypes.FieldValue, error) {
	return domainDesc.ConvertMapToTuples(m)
}

// Analyze runs the whole pipeline for one molecule: SMILES to molecule,
// kallisto adaptation, charges, neighbours, atomic map and summary.
func (s *serviceImpl) Analyze(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.InvalidParam("request is required")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	method := req.ChargeMethod
	if method == "" {
		method = string(s.cfg.DefaultChargeMethod)
	}
	log := s.logger.WithContext(ctx).With(logging.String("id", id), logging.SMILES(req.SMILES), logging.String(logging.FieldMethod, method))

	res, err := s.analyze(ctx, id, req, method)
	if err != nil {
		prometheus.RecordMolecule(s.metrics, method, 0, false)
		log.WithError(err).Warn("descriptor calculation failed")
		return nil, err
	}
	prometheus.RecordMolecule(s.metrics, method, len(res.AtomicMap), true)
	log.Info("descriptor calculation completed", logging.Int(logging.FieldNumAtoms, len(res.AtomicMap)))
	return res, nil
}

func (s *serviceImpl) analyze(ctx context.Context, id string, req *Request, method string) (*Result, error) {
	if !charge.Method(method).IsValid() {
		return nil, &charge.UnsupportedMethodError{Method: charge.Method(method)}
	}
	mol, err := s.MoleculeFromSMILES(ctx, req.SMILES, req.MinimisationMethod)
	if err != nil {
		return nil, err
	}
	km, err := s.AdaptMolecule(ctx, mol)
	if err != nil {
		return nil, err
	}
	charges, err := s.ChargesByMethod(ctx, mol, km, method)
	if err != nil {
		return nil, err
	}
	nbrs, err := s.CovalentAtomIdxs(mol)
	if err != nil {
		return nil, err
	}
	m, err := s.PolarStrengthMap(mol, km, nbrs, charges)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary, err := domainDesc.NewMoleculeSummary(m)
	s.observe(ctx, prometheus.StageAggregate, start, err)
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:           id,
		SMILES:       mol.SMILES,
		ChargeMethod: method,
		AtomicMap:    m,
		Summary:      summary,
		Neighbors:    nbrs,
	}, nil
}

// AnalyzeBatch runs Analyze over reqs with at most Config.BatchConcurrency
// molecules in flight.  It returns one item per request in input order; a
// failing molecule does not stop the others.
func (s *serviceImpl) AnalyzeBatch(ctx context.Context, reqs []*Request) []*BatchItem {
	start := time.Now()
	prometheus.RecordBatch(s.metrics, len(reqs))

	items := make([]*BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, req := range reqs {
		items[i] = &BatchItem{Index: i, Request: req}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = s.Analyze(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	logging.LogOperationDuration(s.logger.WithContext(ctx).With(
		logging.Int("batch_size", len(reqs)), logging.Int("failed", failed)), "analyze_batch", start)
	return items
}

//Personal.AI order the ending
