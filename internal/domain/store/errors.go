package store

import "errors"

// Sentinel kinds for store errors. A failed operation never changes state.
var (
	ErrNotFound   = errors.New("project not found")
	ErrValidation = errors.New("validation failed")
	ErrNotStarted = errors.New("store not started")
)
