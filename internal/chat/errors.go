package chat

import "errors"

var (
	// ErrDuplicateConnection means a connection id was registered
	// twice. This is an internal invariant violation: logged and
	// refused, never a crash.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrUnknownRoom is returned when a client joins a room outside
	// the configured catalog.
	ErrUnknownRoom = errors.New("unknown room")

	// ErrNotInRoom is returned when a client submits a message to a
	// room its session has not joined.
	ErrNotInRoom = errors.New("not in room")

	// ErrInvalidMessage rejects empty or whitespace-only text.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrPersist wraps persistence failures. Nothing is broadcast
	// when a write fails.
	ErrPersist = errors.New("persistence failed")

	// ErrMessageNotFound is returned when a deletion targets an id
	// the store does not have.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbidden rejects a deletion requested by anyone other than
	// the message author.
	ErrForbidden = errors.New("forbidden")
)
