package macropad

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors below unwrap to one of these, so callers
// can classify failures with errors.Is without matching exact messages.
var (
	// ErrConfig marks configuration mistakes (unknown names, malformed
	// bindings, invalid values). Always raised before any frame is sent.
	ErrConfig = errors.New("invalid configuration")

	// ErrTransport marks USB I/O failures. The remaining frame sequence is
	// aborted; already-sent frames cannot be rolled back.
	ErrTransport = errors.New("transport failure")

	// ErrTruncatedRead marks a read-back that yielded fewer button reports
	// than the device owes. The read yields no partial result.
	ErrTruncatedRead = errors.New("truncated read")

	// ErrProtocol marks a violated codec invariant. This is a bug in the
	// tables below, never a user error.
	ErrProtocol = errors.New("protocol invariant violated")
)

// UnknownKeyError reports a key name that does not resolve in the keycode table.
type UnknownKeyError struct {
	Name string
}

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("unknown key %q", e.Name) }
func (e *UnknownKeyError) Unwrap() error { return ErrConfig }

// UnknownModifierError reports an unresolvable modifier token.
type UnknownModifierError struct {
	Name string
}

func (e *UnknownModifierError) Error() string { return fmt.Sprintf("unknown modifier %q", e.Name) }
func (e *UnknownModifierError) Unwrap() error { return ErrConfig }

// UnknownButtonError reports a config key that names no button on this model.
type UnknownButtonError struct {
	Name string
}

func (e *UnknownButtonError) Error() string { return fmt.Sprintf("unknown button %q", e.Name) }
func (e *UnknownButtonError) Unwrap() error { return ErrConfig }

func configErrorf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, a...))
}

func transportErrorf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, a...))
}
