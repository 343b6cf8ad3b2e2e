package queue

import "errors"

var (
	// ErrClosed is returned when Close is called on an already-closed queue.
	ErrClosed = errors.New("queue is closed")
)
