package lcd

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed indicates the controller has been shut down.
	ErrClosed = errors.New("display closed")
	// ErrPeripheralTaken indicates the display hardware is already owned
	// by a worker.
	ErrPeripheralTaken = errors.New("display peripheral already taken")

	errIncompleteHardware = errors.New("display hardware requires canvas and backlight")
)

// DecodeError reports a text line that is not a valid command.
type DecodeError struct {
	Input  string
	Reason string
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Input, e.Reason)
}

// InitError reports a failure to bring up the display hardware.
// It is fatal to the session.
type InitError struct {
	Err error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("display init: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
