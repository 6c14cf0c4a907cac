package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a malformed input file (bad JSON root or a
	// dump that fails the structural schema). Fatal before any filtering.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownMode marks a processing mode that is neither backpack nor
	// container and could not be auto-detected.
	ErrUnknownMode = errors.New("unknown mode")
)
