// Package errs contains sentinel errors shared across layers so that the
// transport layer can map failures to stable HTTP status codes.
package errs

import "errors"

var (
	// ErrInvalidArgument indicates a malformed enum value or missing required field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates a role, ownership or self-action rule violation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates a missing, invalid or inactive credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (email or plate taken).
	ErrAlreadyExists = errors.New("already exists")
)
