package shared

import "errors"

var (
	// ErrNotFound indicates a referenced product, order, distributor or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState indicates the operation is not legal in the order's current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict indicates a compare-and-set lost against a concurrent update.
	// The whole operation is safe to retry from scratch.
	ErrConflict = errors.New("conflict")
	// ErrTransient indicates a datastore call timed out or failed with a
	// retriable infrastructure error. The operation must not be assumed to
	// have partially applied.
	ErrTransient = errors.New("transient store error")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
