package toolkit

import (
	"context"
	"fmt"

	"github.com/turtacn/jazzy-go/internal/domain/kallisto"
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Endpoint labels used for metrics and logs.
const (
	EndpointEmbed            = "embed"
	EndpointMMFF94           = "mmff94"
	EndpointPolarizabilities = "polarizabilities"
	EndpointEEQ              = "eeq"
)

const (
	pathEmbed            = "/v1/molecules/embed"
	pathMMFF94           = "/v1/charges/mmff94"
	pathPolarizabilities = "/v1/kallisto/polarizabilities"
	pathEEQ              = "/v1/kallisto/eeq"
)

var (
	_ molecule.Toolkit = (*Client)(nil)
	_ kallisto.Solver  = (*Client)(nil)
)

type embedRequest struct {
	SMILES             string `json:"smiles"`
	MinimisationMethod string `json:"minimisation_method,omitempty"`
}

type embedResponse struct {
	MolBlock string `json:"molblock"`
	Name     string `json:"name,omitempty"`
}

type mmffRequest struct {
	MolBlock string `json:"molblock"`
}

type mmffResponse struct {
	Charges []float64 `json:"charges"`
}

type kallistoRequest struct {
	Numbers   []int        `json:"numbers"`
	Positions [][3]float64 `json:"positions"`
	Charge    *int         `json:"charge,omitempty"`
}

type valuesResponse struct {
	Values []float64 `json:"values"`
}

// FromSMILES asks the sidecar to parse, protonate and embed smiles.  A 4xx
// answer means the sidecar rejected the input and is reported as an invalid
// SMILES; an unreachable sidecar is reported as CodeToolkitUnavailable.
func (c *Client) FromSMILES(ctx context.Context, smiles string, method molecule.MinimisationMethod) (*molecule.Molecule, error) {
	var resp embedResponse
	err := c.post(ctx, EndpointEmbed, pathEmbed, embedRequest{SMILES: smiles, MinimisationMethod: string(method)}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() && !errors.IsUnavailable(err) {
			return nil, errors.Wrap(apiErr, errors.CodeInvalidSMILES, "toolkit rejected SMILES").
				WithDetail("smiles=" + smiles)
		}
		return nil, err
	}

	mol, err := molecule.ParseMolBlock(resp.MolBlock)
	if err != nil {
		return nil, err
	}
	if resp.Name != "" {
		mol.Name = resp.Name
	}
	mol.SMILES = smiles
	return mol, nil
}

// MMFF94Charges sends the molecule as a molblock and returns one charge per
// atom.
func (c *Client) MMFF94Charges(ctx context.Context, mol *molecule.Molecule) ([]float64, error) {
	if mol == nil {
		return nil, errors.InvalidParam("molecule is nil")
	}
	var resp mmffResponse
	if err := c.post(ctx, EndpointMMFF94, pathMMFF94, mmffRequest{MolBlock: mol.MolBlock()}, &resp); err != nil {
		return nil, err
	}
	return resp.Charges, nil
}

// Polarizabilities runs the kallisto polarizability model.  Positions are in
// Bohr.
func (c *Client) Polarizabilities(ctx context.Context, numbers []int, positions []molecule.Point3) ([]float64, error) {
	req, err := newKallistoRequest(numbers, positions, nil)
	if err != nil {
		return nil, err
	}
	var resp valuesResponse
	if err := c.post(ctx, EndpointPolarizabilities, pathPolarizabilities, req, &resp); err != nil {
		return nil, err
	}
	return checkLen(EndpointPolarizabilities, resp.Values, len(numbers))
}

// EEQCharges runs the kallisto EEQ model for the given total charge.
func (c *Client) EEQCharges(ctx context.Context, numbers []int, positions []molecule.Point3, netCharge int) ([]float64, error) {
	req, err := newKallistoRequest(numbers, positions, &netCharge)
	if err != nil {
		return nil, err
	}
	var resp valuesResponse
	if err := c.post(ctx, EndpointEEQ, pathEEQ, req, &resp); err != nil {
		return nil, err
	}
	return checkLen(EndpointEEQ, resp.Values, len(numbers))
}

func newKallistoRequest(numbers []int, positions []molecule.Point3, charge *int) (kallistoRequest, error) {
	if len(numbers) != len(positions) {
		return kallistoRequest{}, errors.InvalidParam(
			fmt.Sprintf("%d atomic numbers but %d positions", len(numbers), len(positions)))
	}
	pos := make([][3]float64, len(positions))
	for i, p := range positions {
		pos[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return kallistoRequest{Numbers: numbers, Positions: pos, Charge: charge}, nil
}

func checkLen(endpoint string, values []float64, want int) ([]float64, error) {
	if len(values) != want {
		return nil, fmt.Errorf("toolkit %s returned %d values for %d atoms", endpoint, len(values), want)
	}
	return values, nil
}

//Personal.AI order the ending
