package services

import "errors"

// Sentinel errors shared by the services. Handlers map these onto HTTP
// statuses with errors.Is; services wrap them with fmt.Errorf("%w: ...") to
// carry detail.
var (
	// ErrValidation marks malformed or out-of-range input, rejected before
	// any persistence call runs.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a referenced id that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness race that survived the bounded retry
	// policy. Callers may simply try again.
	ErrConflict = errors.New("conflict")

	// ErrUpstream marks an unreachable or misconfigured collaborator
	// (database, printer, broker). Distinct from validation on purpose.
	ErrUpstream = errors.New("upstream unavailable")
)
