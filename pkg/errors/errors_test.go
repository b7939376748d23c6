// Package errors_test covers the AppError type, its factory functions and the
// error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"kallisto", errors.CodeKallisto, "The kallisto molecule was not created for the input 'CC'"},
		{"invalid param", errors.CodeInvalidParam, "SMILES must not be empty"},
		{"lone pairs", errors.CodeNegativeLonePairs, "Atom 3 (Z=7) has a negative number of lone pairs."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	require.NotNil(t, ae)
	assert.Contains(t, ae.Stack, "errors_test.go")
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.CodeUnsupportedElement, "element Z=%d is not supported", 92)
	assert.Equal(t, "element Z=92 is not supported", ae.Message)
	assert.Equal(t, errors.CodeUnsupportedElement, ae.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.CodeToolkitUnavailable, "toolkit unreachable")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeToolkitUnavailable, wrapped.Code)
	assert.Equal(t, "toolkit unreachable", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMMFFCharge, "MMFF94 parameters missing")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeMMFFCharge, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeToolkitUnavailable, "timeout")
	outer := errors.Wrap(inner, errors.CodeKallisto, "polarizabilities failed")

	assert.Equal(t, errors.CodeKallisto, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInvalidSMILES, "invalid SMILES")
	assert.Equal(t, "[MOL_001] invalid SMILES", ae.Error())

	detailed := ae.WithDetail("smiles=C1CC")
	assert.Equal(t, "[MOL_001] invalid SMILES: smiles=C1CC", detailed.Error())
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeNotFound, "resource missing")
	detailed := original.WithDetail("id=42")

	assert.Empty(t, original.Detail)
	assert.Equal(t, "id=42", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
}

func TestWithCause_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeKallisto, "no conformer")
	outer := errors.Wrap(inner, errors.CodeInternal, "pipeline failed")
	wrapped := fmt.Errorf("stage: %w", outer)

	assert.True(t, errors.IsCode(wrapped, errors.CodeInternal))
	assert.True(t, errors.IsCode(wrapped, errors.CodeKallisto))
	assert.False(t, errors.IsCode(wrapped, errors.CodeMMFFCharge))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeJazzy, errors.GetCode(fmt.Errorf("w: %w", errors.New(errors.CodeJazzy, "x"))))
}

func TestIsValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.New(errors.CodeInvalidSMILES, "bad")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
	assert.False(t, errors.IsValidation(nil))
}

func TestIsUnavailable(t *testing.T) {
	t.Parallel()
	down := errors.New(errors.CodeToolkitUnavailable, "refused")
	assert.True(t, errors.IsUnavailable(down))
	assert.True(t, errors.IsUnavailable(errors.Wrap(down, errors.CodeKallisto, "not created")))
	assert.True(t, errors.IsUnavailable(errors.New(errors.ErrCodeServiceUnavailable, "busy")))
	assert.False(t, errors.IsUnavailable(errors.New(errors.CodeKallisto, "not created")))
	assert.False(t, errors.IsUnavailable(stderrors.New("plain")))
	assert.False(t, errors.IsUnavailable(nil))
}

func TestConvenienceFactories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeNotFound, errors.NotFound("x").Code)
	assert.Equal(t, errors.CodeInvalidParam, errors.InvalidParam("x").Code)
	assert.Equal(t, errors.CodeInternal, errors.Internal("x").Code)
}

//Personal.AI order the ending
