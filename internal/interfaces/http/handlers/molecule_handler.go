package handlers

import (
	"github.com/gin-gonic/gin"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/domain/charge"
	domainMol "github.com/turtacn/jazzy-go/internal/domain/molecule"
)

// ChargesRequest is the body of POST /api/v1/charges.
type ChargesRequest struct {
	SMILES             string `json:"smiles" binding:"required"`
	Method             string `json:"method"`
	MinimisationMethod string `json:"minimisation_method"`
}

// ChargesResponse lists one partial charge per atom.
type ChargesResponse struct {
	SMILES  string    `json:"smiles"`
	Method  string    `json:"method"`
	Symbols []string  `json:"symbols"`
	Charges []float64 `json:"charges"`
}

// NeighborsRequest is the body of POST /api/v1/neighbors.
type NeighborsRequest struct {
	MolBlock string `json:"molblock" binding:"required"`
}

// NeighborsResponse is the covalent neighbour map of a molfile.
type NeighborsResponse struct {
	Name      string                `json:"name,omitempty"`
	NumAtoms  int                   `json:"num_atoms"`
	Neighbors domainMol.NeighborMap `json:"neighbors"`
}

// MoleculeHandler exposes the individual pipeline steps.
type MoleculeHandler struct {
	svc                 appdesc.Service
	defaultMethod       string
	defaultMinimisation string
}

// NewMoleculeHandler creates a MoleculeHandler.
func NewMoleculeHandler(svc appdesc.Service, defaultMethod, defaultMinimisation string) *MoleculeHandler {
	return &MoleculeHandler{svc: svc, defaultMethod: defaultMethod, defaultMinimisation: defaultMinimisation}
}

// Charges handles POST /api/v1/charges.
func (h *MoleculeHandler) Charges(c *gin.Context) {
	var body ChargesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if body.Method == "" {
		body.Method = h.defaultMethod
	}
	if body.MinimisationMethod == "" {
		body.MinimisationMethod = h.defaultMinimisation
	}
	if method := charge.Method(body.Method); !method.IsValid() {
		respondError(c, &charge.UnsupportedMethodError{Method: method})
		return
	}
	ctx := c.Request.Context()

	mol, err := h.svc.MoleculeFromSMILES(ctx, body.SMILES, body.MinimisationMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	km, err := h.svc.AdaptMolecule(ctx, mol)
	if err != nil {
		respondError(c, err)
		return
	}
	charges, err := h.svc.ChargesByMethod(ctx, mol, km, body.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	symbols := make([]string, len(mol.Atoms))
	for i, a := range mol.Atoms {
		symbols[i] = a.Symbol()
	}
	respondOK(c, ChargesResponse{SMILES: mol.SMILES, Method: body.Method, Symbols: symbols, Charges: charges})
}

// Neighbors handles POST /api/v1/neighbors.
func (h *MoleculeHandler) Neighbors(c *gin.Context) {
	var body NeighborsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	mol, err := domainMol.ParseMolBlock(body.MolBlock)
	if err != nil {
		respondError(c, err)
		return
	}
	nbrs, err := h.svc.CovalentAtomIdxs(mol)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, NeighborsResponse{Name: mol.Name, NumAtoms: mol.NumAtoms(), Neighbors: nbrs})
}

// RegisterRoutes mounts the step endpoints on rg.
func (h *MoleculeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/charges", h.Charges)
	rg.POST("/neighbors", h.Neighbors)
}

//Personal.AI order the ending
