package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrDimensionMismatch means the new embedder produces vectors the
	// target index cannot hold.
	ErrDimensionMismatch = errors.New("embedder dimension does not match index")
)
