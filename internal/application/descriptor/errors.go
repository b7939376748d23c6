package descriptor

import (
	"github.com/turtacn/jazzy-go/internal/domain/charge"
	domainDesc "github.com/turtacn/jazzy-go/internal/domain/descriptor"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// Names of the two contract errors that carry no AppError code.
const (
	CodeUnsupportedChargeMethod = "UNSUPPORTED_CHARGE_METHOD"
	CodeEmptyAtomicMap          = "EMPTY_ATOMIC_MAP"
)

// ErrorCode names err for response and result payloads.
func ErrorCode(err error) string {
	switch {
	case charge.IsUnsupportedMethod(err):
		return CodeUnsupportedChargeMethod
	case errors.Is(err, domainDesc.ErrEmptyAtomicMap):
		return CodeEmptyAtomicMap
	}
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		return code.String()
	}
	return errors.ErrCodeInternal.String()
}

// ErrorMessage is the outermost AppError message, or err.Error() for
// errors without one.
func ErrorMessage(err error) string {
	var ae *errors.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}

// IsInputError reports whether err is the caller's fault: an unsupported
// charge method, an empty atomic map or a validation failure.
func IsInputError(err error) bool {
	return charge.IsUnsupportedMethod(err) ||
		errors.Is(err, domainDesc.ErrEmptyAtomicMap) ||
		errors.IsValidation(err)
}

//Personal.AI order the ending
