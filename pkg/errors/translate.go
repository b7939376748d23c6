package errors

// translatable lists the chemistry failure kinds that are reported to callers
// as the umbrella CodeJazzy.  Contract violations (unsupported charge method,
// empty atomic map, charge count mismatch) are deliberately absent.
var translatable = map[ErrorCode]struct{}{
	CodeNegativeLonePairs: {},
	CodeKallisto:          {},
	CodeMMFFCharge:        {},
}

// IsTranslatable reports whether code is normalised by Translate.
func IsTranslatable(code ErrorCode) bool {
	_, ok := translatable[code]
	return ok
}

// Translate normalises chemistry failures into the umbrella CodeJazzy error.
// The outermost *AppError in err's chain decides: when its code is one of
// the translatable kinds, a CodeJazzy error carrying the same message and
// detail is returned with err as its cause.  Any other error, including nil,
// is returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if !As(err, &ae) || !IsTranslatable(ae.Code) {
		return err
	}
	return &AppError{
		Code:    CodeJazzy,
		Message: ae.Message,
		Detail:  ae.Detail,
		Cause:   err,
		Stack:   ae.Stack,
	}
}

// Guard2 runs fn and passes its error through Translate.
func Guard2[T any](fn func() (T, error)) (T, error) {
	v, err := fn()
	if err != nil {
		return v, Translate(err)
	}
	return v, nil
}

// Guard is Guard2 for operations without a result value.
func Guard(fn func() error) error {
	return Translate(fn())
}

//Personal.AI order the ending
