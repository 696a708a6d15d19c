package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrStore wraps unexpected failures of the underlying project store.
	ErrStore = errors.New("store failure")
)
