package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrPrecondition       = errors.New("precondition failed")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrSignatureMismatch  = errors.New("payment signature mismatch")
)

// Code returns a stable machine-readable identifier for a domain error.
// Unknown errors map to "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrPrecondition):
		return "precondition_failed"
	case errors.Is(err, ErrAlreadyPaid):
		return "already_paid"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	default:
		return "internal"
	}
}
