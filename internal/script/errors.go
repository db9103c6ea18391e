package script

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrOperationLimit is returned when a script performs more chain
	// operations than allowed.
	ErrOperationLimit = errors.New("chain operation limit exceeded")
)
