package application

import "errors"

// Sentinel errors returned by application services. Driving adapters collapse
// all of them into null results or error notifications.
var (
	// ErrUnauthorized indicates the principal lacks the role an operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates the input failed schema validation.
	ErrValidation = errors.New("validation failed")

	// ErrNoActiveModel indicates chat was requested before any model was activated.
	ErrNoActiveModel = errors.New("no active model configured")
)
