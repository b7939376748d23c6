package handlers

import (
	"github.com/gin-gonic/gin"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	domainMol "github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/types/common"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// Atomic map views.
const (
	FormatMap       = "map"
	FormatTuples    = "tuples"
	FormatCondensed = "condensed"
)

// DefaultMaxBatchItems caps batch requests when the handler config leaves
// it unset.
const DefaultMaxBatchItems = 100

// DescriptorRequest is the body of POST /api/v1/descriptors.
type DescriptorRequest struct {
	SMILES             string `json:"smiles" binding:"required"`
	MinimisationMethod string `json:"minimisation_method"`
	ChargeMethod       string `json:"charge_method"`
	Format             string `json:"format" binding:"omitempty,oneof=map tuples condensed"`
}

// BatchDescriptorRequest is the body of POST /api/v1/descriptors/batch.
type BatchDescriptorRequest struct {
	Items  []appdesc.Request `json:"items" binding:"required,min=1"`
	Format string            `json:"format" binding:"omitempty,oneof=map tuples condensed"`
}

// DescriptorResponse carries one molecule's descriptors in the requested
// view.  Exactly one of AtomicMap, Tuples and Condensed is set.
type DescriptorResponse struct {
	ID           string                   `json:"id"`
	SMILES       string                   `json:"smiles"`
	ChargeMethod string                   `json:"charge_method"`
	Format       string                   `json:"format"`
	AtomicMap    dtypes.AtomicMap         `json:"atomic_map,omitempty"`
	Tuples       [][]dtypes.FieldValue    `json:"tuples,omitempty"`
	Condensed    []dtypes.CondensedRecord `json:"condensed,omitempty"`
	Summary      dtypes.MoleculeSummary   `json:"summary"`
	Neighbors    domainMol.NeighborMap    `json:"neighbors"`
}

// DescriptorHandlerConfig tunes the descriptor endpoints.
type DescriptorHandlerConfig struct {
	MaxBatchItems       int
	DefaultMinimisation string
}

// DescriptorHandler serves the descriptor endpoints.
type DescriptorHandler struct {
	svc    appdesc.Service
	cfg    DescriptorHandlerConfig
	logger logging.Logger
}

// NewDescriptorHandler creates a DescriptorHandler.
func NewDescriptorHandler(svc appdesc.Service, cfg DescriptorHandlerConfig, logger logging.Logger) *DescriptorHandler {
	if cfg.MaxBatchItems <= 0 {
		cfg.MaxBatchItems = DefaultMaxBatchItems
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DescriptorHandler{svc: svc, cfg: cfg, logger: logger.Named("handlers.descriptor")}
}

// Compute handles POST /api/v1/descriptors.
func (h *DescriptorHandler) Compute(c *gin.Context) {
	var body DescriptorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	req := h.request(appdesc.Request{
		SMILES:             body.SMILES,
		MinimisationMethod: body.MinimisationMethod,
		ChargeMethod:       body.ChargeMethod,
	}, c)

	res, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.render(res, body.Format)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ComputeBatch handles POST /api/v1/descriptors/batch.  Failed molecules are
// reported per item; the request itself only fails on a malformed body.
func (h *DescriptorHandler) ComputeBatch(c *gin.Context) {
	var body BatchDescriptorRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(body.Items) > h.cfg.MaxBatchItems {
		respondBadRequest(c, "batch exceeds the maximum number of items")
		return
	}

	reqs := make([]*appdesc.Request, len(body.Items))
	for i := range body.Items {
		reqs[i] = h.request(body.Items[i], nil)
	}
	items := h.svc.AnalyzeBatch(c.Request.Context(), reqs)

	out := common.BatchResponse[*DescriptorResponse]{
		Succeeded:      make([]*DescriptorResponse, 0, len(items)),
		Failed:         make([]common.BatchError, 0),
		TotalProcessed: len(items),
	}
	for _, it := range items {
		err := it.Err
		var resp *DescriptorResponse
		if err == nil {
			resp, err = h.render(it.Result, body.Format)
		}
		if err != nil {
			out.Failed = append(out.Failed, common.BatchError{Index: it.Index, Error: ErrorDetail(err)})
			continue
		}
		out.Succeeded = append(out.Succeeded, resp)
	}
	h.logger.WithContext(c.Request.Context()).Info("descriptor batch served",
		logging.Int("items", len(items)), logging.Int("failed", len(out.Failed)))
	respondOK(c, out)
}

// request fills defaults.  A single request adopts the HTTP request ID.
func (h *DescriptorHandler) request(r appdesc.Request, c *gin.Context) *appdesc.Request {
	if r.MinimisationMethod == "" {
		r.MinimisationMethod = h.cfg.DefaultMinimisation
	}
	if r.ID == "" && c != nil {
		r.ID = logging.RequestIDFrom(c.Request.Context())
	}
	return &r
}

func (h *DescriptorHandler) render(res *appdesc.Result, format string) (*DescriptorResponse, error) {
	if format == "" {
		format = FormatMap
	}
	resp := &DescriptorResponse{
		ID:           res.ID,
		SMILES:       res.SMILES,
		ChargeMethod: res.ChargeMethod,
		Format:       format,
		Summary:      res.Summary,
		Neighbors:    res.Neighbors,
	}
	var err error
	switch format {
	case FormatTuples:
		resp.Tuples, err = h.svc.ConvertMapToTuples(res.AtomicMap)
	case FormatCondensed:
		resp.Condensed, err = h.svc.CondenseAtomicMap(res.AtomicMap)
	default:
		resp.AtomicMap = res.AtomicMap
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RegisterRoutes mounts the descriptor endpoints on rg.
func (h *DescriptorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/descriptors", h.Compute)
	rg.POST("/descriptors/batch", h.ComputeBatch)
}

//Personal.AI order the ending
