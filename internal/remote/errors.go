package remote

import "errors"

var (
	// ErrNotFound is returned when a scope-qualified row does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrUnavailable signals that the store could not be reached. Wrapped
	// driver errors carry the detail.
	ErrUnavailable = errors.New("remote store unavailable")
)
