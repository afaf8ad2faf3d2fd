package mirror

import "errors"

// Sentinel kinds for mirror errors.
var (
	// ErrDeserialization marks a persisted entry that could not be decoded
	// into its field. Load recovers from it by using the fallback value.
	ErrDeserialization = errors.New("persisted entry could not be decoded")
	ErrClosed          = errors.New("mirror closed")
)
