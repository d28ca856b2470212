package resumes

import "errors"

var (
	// ErrNotFound covers both a missing resume and one owned by another user.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrOwnerNotFound indicates the owning user no longer exists.
var ErrOwnerNotFound = errors.New("owner not found")
