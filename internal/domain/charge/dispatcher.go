// Package charge selects and runs the partial charge calculation used by the
// descriptor builder.
package charge

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/jazzy-go/internal/domain/kallisto"
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Method names a charge calculation scheme.
type Method string

const (
	MethodKallisto Method = "kallisto"
	MethodMMFF94   Method = "MMFF94"
)

// SupportedMethods lists the accepted methods in display order.
var SupportedMethods = []Method{MethodKallisto, MethodMMFF94}

// IsValid reports whether m is a supported method.  Matching is exact.
func (m Method) IsValid() bool {
	for _, s := range SupportedMethods {
		if m == s {
			return true
		}
	}
	return false
}

// UnsupportedMethodError is returned for a method outside SupportedMethods.
type UnsupportedMethodError struct {
	Method Method
}

func (e *UnsupportedMethodError) Error() string {
	names := make([]string, len(SupportedMethods))
	for i, m := range SupportedMethods {
		names[i] = fmt.Sprintf("'%s'", m)
	}
	return fmt.Sprintf("Select a valid charge calculation method [%s]", strings.Join(names, ", "))
}

// IsUnsupportedMethod reports whether err is an UnsupportedMethodError.
func IsUnsupportedMethod(err error) bool {
	var ume *UnsupportedMethodError
	return errors.As(err, &ume)
}

// Dispatcher routes charge requests to kallisto EEQ or to the toolkit's
// MMFF94 implementation.  It keeps no state between calls.
type Dispatcher struct {
	toolkit molecule.Toolkit
}

// NewDispatcher returns a dispatcher that uses tk for MMFF94 charges.
func NewDispatcher(tk molecule.Toolkit) *Dispatcher {
	return &Dispatcher{toolkit: tk}
}

// ChargesByMethod returns one partial charge per atom of mol.  The kallisto
// method uses km with the molecule's net formal charge.
func (d *Dispatcher) ChargesByMethod(ctx context.Context, mol *molecule.Molecule, km *kallisto.Molecule, method Method) ([]float64, error) {
	switch method {
	case MethodKallisto:
		return kallisto.ChargesFromMolecule(ctx, km, mol.NetCharge())
	case MethodMMFF94:
		return d.mmff94(ctx, mol)
	}
	return nil, &UnsupportedMethodError{Method: method}
}

func (d *Dispatcher) mmff94(ctx context.Context, mol *molecule.Molecule) ([]float64, error) {
	if d.toolkit == nil {
		return nil, errors.New(errors.CodeMMFFCharge, "no toolkit configured for MMFF94 charges")
	}
	charges, err := d.toolkit.MMFF94Charges(ctx, mol)
	if err != nil {
		if errors.IsUnavailable(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeMMFFCharge, fmt.Sprintf("MMFF94 charges could not be computed for '%s'", mol.Label()))
	}
	if len(charges) != mol.NumAtoms() {
		return nil, errors.Newf(errors.CodeMMFFCharge, "MMFF94 returned %d charges for %d atoms", len(charges), mol.NumAtoms())
	}
	return charges, nil
}

//Personal.AI order the ending
