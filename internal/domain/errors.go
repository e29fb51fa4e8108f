package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError matches ErrNotFound and names what was missing.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError matches ErrAlreadyExists and describes the clash.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

var (
	ErrPolicyNotFound   = &NotFoundError{Message: "Policy not found."}
	ErrCustomerNotFound = &NotFoundError{Message: "Customer not found."}
	ErrDuplicateEmail   = &ConflictError{Message: "A customer with this email address already exists."}
	ErrDuplicatePolicy  = &ConflictError{Message: "A policy with this ID already exists."}
)
