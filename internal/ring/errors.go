package ring

import "errors"

var (
	// ErrInvalidCapacity is returned when the ring capacity is not a power of two.
	ErrInvalidCapacity = errors.New("ring: capacity must be a power of two greater than zero")
	// ErrClosed reports a closed ring. TryEnqueue itself signals a closed
	// ring by returning false rather than this error.
	ErrClosed = errors.New("ring: closed")
)
