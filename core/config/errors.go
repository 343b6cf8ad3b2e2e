package config

import "errors"

var (
	// ErrNilConfig is returned when Load is called with a nil pointer.
	ErrNilConfig = errors.New("config must not be nil")

	// ErrParsingFailed wraps errors from parsing environment variables.
	ErrParsingFailed = errors.New("failed to parse environment variables")
)
