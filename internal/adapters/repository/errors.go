package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound   = errors.New("key not found")
	ErrClosed     = errors.New("repository closed")
	ErrInvalidKey = errors.New("invalid key")
)
