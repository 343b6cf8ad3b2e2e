package bus

import "errors"

var (
	// ErrNilMessage is returned when a nil message is posted.
	ErrNilMessage = errors.New("message must not be nil")
)
