package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers check for with errors.Is().
//
// Error handling principles:
// 1. Expected conditions surface as sentinel errors (this file and the
//    store package's sentinels, which services wrap with %w).
// 2. Unexpected errors are wrapped with operation context.
// 3. The API layer maps sentinels to HTTP status codes; everything else
//    becomes a 500 with a generic body.
var (
	// ErrSuggestionNotProposed indicates an accept or dismiss was attempted
	// on a suggestion that has already been resolved. Acting on a resolved
	// draft again would duplicate the accepted task, so the attempt is
	// rejected. API layer should map this to HTTP 409 Conflict.
	ErrSuggestionNotProposed = errors.New("suggestion is no longer proposed")
)
