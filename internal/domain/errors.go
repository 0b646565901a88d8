package domain

import "errors"

// Sentinel errors shared by repositories, use cases and delivery. Callers
// wrap them with fmt.Errorf("...: %w", ErrX) so messages stay descriptive.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
