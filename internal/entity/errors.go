package entity

import "errors"

var (
	ErrNotFound = errors.New("job not found")
	// ErrConflict means a guarded write did not apply: the job already left
	// processing, or the stage result it targets is already persisted.
	ErrConflict     = errors.New("job state conflict")
	ErrInvalidInput = errors.New("invalid input")
)
