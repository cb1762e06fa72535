package api

import "errors"

// Error taxonomy for the backend client. Callers match with errors.Is.
var (
	// ErrNetwork covers transport and timeout failures. Retryable; no
	// client state should change because of one.
	ErrNetwork = errors.New("network error")

	// ErrAuth covers 401-class responses. The session must be destroyed
	// and the bookmark set cleared when one is seen.
	ErrAuth = errors.New("authentication required")

	// ErrServer covers non-auth 4xx/5xx responses. Surfaced to the UI as
	// a non-fatal banner; feed state is unchanged.
	ErrServer = errors.New("server error")

	// ErrValidation covers malformed local input (missing credentials).
	// Raised before any network call is made.
	ErrValidation = errors.New("invalid input")
)
