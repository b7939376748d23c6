package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Aliases used across the code base.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES    ErrorCode = "MOL_001"
	ErrCodeMoleculeInvalidFormat    ErrorCode = "MOL_003"
	ErrCodeMoleculeParsingFailed    ErrorCode = "MOL_006"
	ErrCodeMoleculeConversionFailed ErrorCode = "MOL_011"

	CodeInvalidSMILES = ErrCodeMoleculeInvalidSMILES
)

// Descriptor pipeline error codes.  CodeJazzy is the umbrella kind reported at
// public entry points; the three chemistry kinds below it are translated into
// it by Translate.
const (
	ErrCodeJazzy               ErrorCode = "JAZZY_001"
	ErrCodeKallisto            ErrorCode = "JAZZY_002"
	ErrCodeNegativeLonePairs   ErrorCode = "JAZZY_003"
	ErrCodeMMFFChargeCalc      ErrorCode = "JAZZY_004"
	ErrCodeChargeCountMismatch ErrorCode = "JAZZY_005"
	ErrCodeUnsupportedElement  ErrorCode = "JAZZY_006"
	ErrCodeInvalidAtomicRecord ErrorCode = "JAZZY_007"
	ErrCodeToolkitUnavailable  ErrorCode = "JAZZY_008"

	CodeJazzy               = ErrCodeJazzy
	CodeKallisto            = ErrCodeKallisto
	CodeNegativeLonePairs   = ErrCodeNegativeLonePairs
	CodeMMFFCharge          = ErrCodeMMFFChargeCalc
	CodeChargeCountMismatch = ErrCodeChargeCountMismatch
	CodeUnsupportedElement  = ErrCodeUnsupportedElement
	CodeInvalidAtomicRecord = ErrCodeInvalidAtomicRecord
	CodeToolkitUnavailable  = ErrCodeToolkitUnavailable
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeMoleculeInvalidSMILES:    http.StatusBadRequest,
	ErrCodeMoleculeInvalidFormat:    http.StatusBadRequest,
	ErrCodeMoleculeParsingFailed:    http.StatusUnprocessableEntity,
	ErrCodeMoleculeConversionFailed: http.StatusUnprocessableEntity,

	ErrCodeJazzy:               http.StatusUnprocessableEntity,
	ErrCodeKallisto:            http.StatusUnprocessableEntity,
	ErrCodeNegativeLonePairs:   http.StatusUnprocessableEntity,
	ErrCodeMMFFChargeCalc:      http.StatusUnprocessableEntity,
	ErrCodeChargeCountMismatch: http.StatusInternalServerError,
	ErrCodeUnsupportedElement:  http.StatusUnprocessableEntity,
	ErrCodeInvalidAtomicRecord: http.StatusInternalServerError,
	ErrCodeToolkitUnavailable:  http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeExternalService:    "external service error",

	ErrCodeMoleculeInvalidSMILES:    "invalid SMILES format",
	ErrCodeMoleculeInvalidFormat:    "unsupported molecule format",
	ErrCodeMoleculeParsingFailed:    "failed to parse molecule",
	ErrCodeMoleculeConversionFailed: "molecule format conversion failed",

	ErrCodeJazzy:               "descriptor calculation failed",
	ErrCodeKallisto:            "kallisto molecule could not be processed",
	ErrCodeNegativeLonePairs:   "negative number of lone pairs",
	ErrCodeMMFFChargeCalc:      "MMFF94 charge calculation failed",
	ErrCodeChargeCountMismatch: "charge vector does not match atom count",
	ErrCodeUnsupportedElement:  "element not supported by the valence model",
	ErrCodeInvalidAtomicRecord: "invalid atomic record",
	ErrCodeToolkitUnavailable:  "chemistry toolkit unavailable",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
