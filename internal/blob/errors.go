package blob

import "errors"

// Errors returned by chain operations.
var (
	// ErrAllocation indicates a new blob could not be allocated because the
	// chain reached its capacity limit.
	ErrAllocation = errors.New("blob allocation failed")

	// ErrIndexOutOfRange indicates a split offset outside the blob's text.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidArgument indicates a zero, stale or foreign handle, or a join
	// of a blob with itself.
	ErrInvalidArgument = errors.New("invalid argument")
)
