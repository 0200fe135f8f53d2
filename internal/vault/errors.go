package vault

import "errors"

var (
	// ErrTitleConflict reports a client-side key collision on create or
	// rename. Detected before any remote I/O.
	ErrTitleConflict = errors.New("title already exists")

	// ErrNotLoaded is returned when an operation requires a loaded session.
	ErrNotLoaded = errors.New("session not loaded")

	// ErrNoItem is returned when the referenced title is absent from the
	// merged collection.
	ErrNoItem = errors.New("no such item")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session closed")
)
