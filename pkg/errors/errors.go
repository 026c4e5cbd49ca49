// Package errors provides common domain error types for chatseg.
//
// It defines sentinel errors for conditions callers branch on, usable with
// errors.Is() checks across packages. Everything else is wrapped with
// fmt.Errorf("...: %w", err) at the point of failure.
package errors

import "errors"

var (
	// ErrNotFound indicates the requested transcript was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a transcript with the same content hash
	// is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates invalid input or configuration.
	ErrValidation = errors.New("validation error")

	// ErrUnavailable indicates a backing service (database, cache,
	// keyring) could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether any error in err's chain is ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports whether any error in err's chain is ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
