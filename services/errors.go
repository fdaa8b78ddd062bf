package services

import "errors"

// Failure sentinels shared by the services and mapped to HTTP statuses
// by the handlers. Wrap with fmt.Errorf("...: %w", Err...) so callers
// can attach the offending detail and still match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientWords = errors.New("insufficient words")
)

// ErrorKind returns the machine-readable kind for a service error, or
// "internal" when the error is not one of the taxonomy sentinels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate_key"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientWords):
		return "insufficient_resource"
	default:
		return "internal"
	}
}
