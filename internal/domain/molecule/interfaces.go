package molecule

import (
	"context"
	"strings"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// MinimisationMethod selects the force field used to relax an embedded
// conformer.  The zero value means no minimisation.
type MinimisationMethod string

const (
	MinimisationNone   MinimisationMethod = ""
	MinimisationMMFF94 MinimisationMethod = "MMFF94"
)

// ParseMinimisationMethod accepts "", "none" and "MMFF94" (case-insensitive).
func ParseMinimisationMethod(s string) (MinimisationMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return MinimisationNone, nil
	case "MMFF94":
		return MinimisationMMFF94, nil
	}
	return MinimisationNone, errors.InvalidParam("unsupported minimisation method").
		WithDetail("method=" + s)
}

// Toolkit is the chemistry toolkit the pipeline delegates structure work to.
type Toolkit interface {
	// FromSMILES parses smiles, adds explicit hydrogens, embeds one 3D
	// conformer and minimises it with method when method is not
	// MinimisationNone.
	FromSMILES(ctx context.Context, smiles string, method MinimisationMethod) (*Molecule, error)

	// MMFF94Charges returns MMFF94 partial charges in atom order.
	MMFF94Charges(ctx context.Context, mol *Molecule) ([]float64, error)
}

//Personal.AI order the ending
