package users

import "errors"

var (
	// ErrNotFound indicates no user matched.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldIssue describes one invalid input field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists the offending fields and matches ErrInvalidInput.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
