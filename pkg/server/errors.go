package server

import "errors"

// Sentinel errors for session and server conditions.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrUnknownHandler is reported when no handler is registered for an event.
	ErrUnknownHandler = errors.New("server: unknown handler")

	// ErrEventQueueFull is reported when the event queue is full and an event is dropped.
	ErrEventQueueFull = errors.New("server: event queue full")

	// ErrInvalidEvent is reported when a client message cannot be decoded.
	ErrInvalidEvent = errors.New("server: invalid event")
)
