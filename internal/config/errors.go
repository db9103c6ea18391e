package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a setting holds an unusable value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDecode indicates merged settings could not be decoded into Config.
	ErrDecode = errors.New("decoding configuration")
)
