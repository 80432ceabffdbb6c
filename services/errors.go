package services

import "errors"

var (
	// ErrNotFound covers both absent entities and templates outside the
	// active status for non-owners.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the acting user does not own the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput marks malformed client input that cannot be clamped.
	ErrInvalidInput = errors.New("invalid input")
)
