package askline

import (
	"fmt"
	"io"
)

// ErrSourceClosed reports that the input source is exhausted and can never
// yield another line. Retrying a read would loop forever, so exhaustion ends
// the call instead. The sentinel wraps io.EOF, so callers may test for
// either.
var ErrSourceClosed = fmt.Errorf("input source closed: %w", io.EOF)

// ErrLockPoisoned reports that a previous holder of the shared console lock
// panicked while holding it. Serialized reads refuse to run after that rather
// than prompt over possibly inconsistent console state.
var ErrLockPoisoned = fmt.Errorf("console lock poisoned: previous holder panicked")

// ReadError wraps a recoverable failure to read a line from the source. The
// loop reports it to the observer and prompts again; it is never returned to
// the caller.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("input read error: %v", e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// ConvertError wraps a failure to convert entered text into the target type.
// It names the offending text and the expected type. The loop reports it to
// the observer and prompts again; it is never returned to the caller.
type ConvertError struct {
	Text  string
	Type  string
	Cause error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("invalid input '%s' for type %s: %v", e.Text, e.Type, e.Cause)
}

func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// SinkError wraps a failure to write or flush the prompt or a diagnostic.
// A broken sink means no further interaction is possible, so it ends the
// call immediately and is never retried.
type SinkError struct {
	Op    string // "write" or "flush"
	Cause error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s to output sink: %v", e.Op, e.Cause)
}

func (e *SinkError) Unwrap() error {
	return e.Cause
}
