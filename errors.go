package eventtracker

import (
	"errors"
	"fmt"
)

var (
	// ErrUninitialized is returned by the tracking methods if Initialize has not yet been called.
	ErrUninitialized = errors.New("event tracker has not been initialized")

	// ErrInvalidEvent is matched, through errors.Is, by the *InvalidEventError returned for an
	// event with a missing or malformed field.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidConfig is returned by Initialize if a required Config field is missing.
	ErrInvalidConfig = errors.New("invalid tracker configuration")

	// ErrSharedInstanceExists is returned by MakeSharedInstance if the shared tracker has already
	// been created.
	ErrSharedInstanceExists = errors.New("the shared event tracker instance already exists")

	// ErrTrackerClosed is returned by the tracking methods after Close has been called.
	ErrTrackerClosed = errors.New("event tracker has been closed")
)

// InvalidEventError describes a validation failure for a PlayEvent or ShareEvent. Events that fail
// validation are never queued.
type InvalidEventError struct {
	// Field is the name of the offending event field, as it appears in the event record.
	Field string
	// Reason is a short description of the problem.
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// Is returns true for ErrInvalidEvent.
func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

func invalidConfig(field string) error {
	return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, field)
}
