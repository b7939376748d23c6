package client

import (
	"context"

	"github.com/turtacn/jazzy-go/pkg/types/common"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// Atomic map views accepted by the descriptor endpoints.
const (
	FormatMap       = "map"
	FormatTuples    = "tuples"
	FormatCondensed = "condensed"
)

// DescriptorRequest asks for the atomic descriptor map of one molecule.
// Empty methods use the server defaults.
type DescriptorRequest struct {
	SMILES             string `json:"smiles"`
	MinimisationMethod string `json:"minimisation_method,omitempty"`
	ChargeMethod       string `json:"charge_method,omitempty"`
	Format             string `json:"format,omitempty"`
}

// BatchItem is one molecule of a batch request.
type BatchItem struct {
	ID                 string `json:"id,omitempty"`
	SMILES             string `json:"smiles"`
	MinimisationMethod string `json:"minimisation_method,omitempty"`
	ChargeMethod       string `json:"charge_method,omitempty"`
}

// BatchRequest asks for several molecules in one call.
type BatchRequest struct {
	Items  []BatchItem `json:"items"`
	Format string      `json:"format,omitempty"`
}

// Descriptors is the server's answer for one molecule.  Only the field of
// the requested view is populated.
type Descriptors struct {
	ID           string                   `json:"id"`
	SMILES       string                   `json:"smiles"`
	ChargeMethod string                   `json:"charge_method"`
	Format       string                   `json:"format"`
	AtomicMap    dtypes.AtomicMap         `json:"atomic_map,omitempty"`
	Tuples       [][]dtypes.FieldValue    `json:"tuples,omitempty"`
	Condensed    []dtypes.CondensedRecord `json:"condensed,omitempty"`
	Summary      dtypes.MoleculeSummary   `json:"summary"`
	Neighbors    [][]int                  `json:"neighbors"`
}

// BatchResult splits a batch into computed molecules and per-item failures.
type BatchResult = common.BatchResponse[*Descriptors]

// ChargesRequest asks for the partial charges of one molecule.
type ChargesRequest struct {
	SMILES             string `json:"smiles"`
	Method             string `json:"method,omitempty"`
	MinimisationMethod string `json:"minimisation_method,omitempty"`
}

// Charges lists one partial charge per atom, hydrogens included.
type Charges struct {
	SMILES  string    `json:"smiles"`
	Method  string    `json:"method"`
	Symbols []string  `json:"symbols"`
	Charges []float64 `json:"charges"`
}

// Neighbors is the covalent neighbour map of a molfile.
type Neighbors struct {
	Name      string  `json:"name,omitempty"`
	NumAtoms  int     `json:"num_atoms"`
	Neighbors [][]int `json:"neighbors"`
}

// Descriptors computes the atomic descriptor map of req.SMILES.
func (c *Client) Descriptors(ctx context.Context, req *DescriptorRequest) (*Descriptors, error) {
	var out Descriptors
	if err := c.post(ctx, "/descriptors", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescriptorsBatch computes several molecules.  Per-item failures are
// reported in the result, not as an error.
func (c *Client) DescriptorsBatch(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	var out BatchResult
	if err := c.post(ctx, "/descriptors/batch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Charges computes partial charges with the requested method.
func (c *Client) Charges(ctx context.Context, req *ChargesRequest) (*Charges, error) {
	var out Charges
	if err := c.post(ctx, "/charges", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Neighbors derives the covalent neighbour map of a V2000 molblock.
func (c *Client) Neighbors(ctx context.Context, molBlock string) (*Neighbors, error) {
	var out Neighbors
	if err := c.post(ctx, "/neighbors", map[string]string{"molblock": molBlock}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
