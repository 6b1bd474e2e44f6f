package session

import (
	"errors"
	"strings"
)

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrZoneNotFound indicates the referenced zone doesn't exist.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrUnconfirmedWarnings indicates a write with warnings that was not forced.
	ErrUnconfirmedWarnings = errors.New("session has unconfirmed warnings")
)

// WarningsError carries the warnings that blocked an unforced write.
type WarningsError struct {
	Warnings []Warning
}

func (e *WarningsError) Error() string {
	msgs := make([]string, 0, len(e.Warnings))
	for _, w := range e.Warnings {
		msgs = append(msgs, w.Message)
	}
	return ErrUnconfirmedWarnings.Error() + ": " + strings.Join(msgs, " ")
}

func (e *WarningsError) Unwrap() error {
	return ErrUnconfirmedWarnings
}
