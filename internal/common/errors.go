// Package common defines shared sentinel errors and small utilities used
// across vault components. Callers should match errors with errors.Is.
package common

import "errors"

var (
	// Repository/store-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic internal failure surfaced when no more specific error applies.
	ErrorInternal = errors.New("internal error")
)
