package descriptor

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/jazzy-go/internal/domain/charge"
	domainDesc "github.com/turtacn/jazzy-go/internal/domain/descriptor"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeUnsupportedChargeMethod, ErrorCode(&charge.UnsupportedMethodError{Method: "x"}))
	assert.Equal(t, CodeEmptyAtomicMap, ErrorCode(domainDesc.ErrEmptyAtomicMap))
	assert.Equal(t, "MOL_001", ErrorCode(errors.New(errors.CodeInvalidSMILES, "bad")))
	assert.Equal(t, "JAZZY_001", ErrorCode(errors.New(errors.CodeJazzy, "boom")))
	assert.Equal(t, "COMMON_001", ErrorCode(stderrors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad", ErrorMessage(errors.New(errors.CodeInvalidSMILES, "bad").WithDetail("smiles=x")))
	assert.Equal(t, "plain", ErrorMessage(stderrors.New("plain")))
	assert.Equal(t, "Select a valid charge calculation method ['kallisto', 'MMFF94']",
		ErrorMessage(&charge.UnsupportedMethodError{Method: "x"}))
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(&charge.UnsupportedMethodError{Method: "x"}))
	assert.True(t, IsInputError(domainDesc.ErrEmptyAtomicMap))
	assert.True(t, IsInputError(errors.New(errors.CodeInvalidSMILES, "bad")))
	assert.True(t, IsInputError(errors.New(errors.ErrCodeValidation, "smiles is required")))
	assert.False(t, IsInputError(errors.New(errors.CodeJazzy, "boom")))
	assert.False(t, IsInputError(stderrors.New("plain")))
}

//Personal.AI order the ending
