package molecule

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// validSMILESChars is the allowed character set for SMILES notation.  Full
// validation needs a parser and is left to the Toolkit.
var validSMILESChars = regexp.MustCompile(`^[A-Za-z0-9@+\-\[\]()=#$/\\%.*:]+$`)

// ValidateSMILES performs the local checks that do not need a parser:
// non-empty, allowed characters, balanced brackets.
func ValidateSMILES(smiles string) error {
	if strings.TrimSpace(smiles) == "" {
		return errors.New(errors.CodeInvalidSMILES, "SMILES string cannot be empty")
	}
	if !validSMILESChars.MatchString(smiles) {
		return errors.New(errors.CodeInvalidSMILES, "SMILES contains invalid characters").
			WithDetail(fmt.Sprintf("smiles=%s", smiles))
	}
	return validateBrackets(smiles)
}

func validateBrackets(smiles string) error {
	var stack []rune
	closers := map[rune]rune{')': '(', ']': '['}

	for _, ch := range smiles {
		switch ch {
		case '(', '[':
			stack = append(stack, ch)
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != closers[ch] {
				return errors.New(errors.CodeInvalidSMILES, "unmatched brackets in SMILES").
					WithDetail(fmt.Sprintf("smiles=%s", smiles))
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return errors.New(errors.CodeInvalidSMILES, "unclosed brackets in SMILES").
			WithDetail(fmt.Sprintf("smiles=%s", smiles))
	}
	return nil
}

// FromSMILES builds an embedded molecule with explicit hydrogens from a SMILES
// string.  The toolkit does the parsing and embedding; the result is checked
// for a complete conformer before it is returned.
func FromSMILES(ctx context.Context, tk Toolkit, smiles string, method MinimisationMethod) (*Molecule, error) {
	smiles = strings.TrimSpace(smiles)
	if err := ValidateSMILES(smiles); err != nil {
		return nil, err
	}
	if method != MinimisationNone && method != MinimisationMMFF94 {
		return nil, errors.InvalidParam("unsupported minimisation method").
			WithDetail(fmt.Sprintf("method=%s", method))
	}

	mol, err := tk.FromSMILES(ctx, smiles, method)
	if err != nil {
		if errors.GetCode(err) == errors.CodeUnknown && ctx.Err() == nil {
			return nil, errors.Wrap(err, errors.CodeToolkitUnavailable, "toolkit failed to build molecule")
		}
		return nil, err
	}
	if mol == nil || mol.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeInvalidSMILES, "toolkit returned an empty molecule").
			WithDetail(fmt.Sprintf("smiles=%s", smiles))
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}
	if mol.SMILES == "" {
		mol.SMILES = smiles
	}
	return mol, nil
}

//Personal.AI order the ending
