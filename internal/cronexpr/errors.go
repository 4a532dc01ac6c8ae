package cronexpr

import (
	"errors"
	"fmt"
)

// Validation errors returned by Check and Engine.Next.
var (
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrFieldCount     = errors.New("wrong number of fields")
	ErrParse          = errors.New("cron parse error")
	ErrCountLimit     = errors.New("too many fire times requested")
)

// Conversion error kinds. Use errors.Is against a *ConversionError.
var (
	ErrEmptyInput              = errors.New("expression must not be empty")
	ErrInvalidSource           = errors.New("source expression invalid")
	ErrUnsupportedConversion   = errors.New("unsupported conversion")
	ErrSecondFieldIncompatible = errors.New("second field must be 0 or * to convert to unix5")
	ErrInvalidResult           = errors.New("conversion result invalid")
)

// ConversionError is the failure half of a conversion.
//
// Error() is the reason shown to users. Cause carries the underlying validation
// error (if any) for diagnostics.
type ConversionError struct {
	Kind  error
	From  Dialect
	To    Dialect
	Cause error
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case ErrSecondFieldIncompatible:
		return "conversion failed: " + e.Kind.Error()
	case ErrUnsupportedConversion:
		return fmt.Sprintf("%s: %s -> %s", e.Kind, e.From, e.To)
	case nil:
		if e.Cause != nil {
			return "conversion failed: " + e.Cause.Error()
		}
		return "conversion failed"
	default:
		return e.Kind.Error()
	}
}

func (e *ConversionError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}
