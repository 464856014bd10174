package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrRateLimited   = errors.New("rate limited")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingMetadata means the account metadata needed to build a persona
	// is absent. A run that hits it produces no persona.
	ErrMissingMetadata = errors.New("missing account metadata")

	// ErrInvalidRecord marks a single malformed activity record. It is only
	// ever reported as a diagnostic; the run continues without that record.
	ErrInvalidRecord = errors.New("invalid activity record")
)
