package backgrounds

import "errors"

var (
	// ErrValidation indicates malformed or incomplete input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced background does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpload indicates an asset upload failed and the operation was aborted.
	ErrUpload = errors.New("asset upload failed")

	// ErrStorage indicates the record store failed.
	ErrStorage = errors.New("record store failure")
)

// ValidationError carries a caller-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
