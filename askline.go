// Package askline reads validated, typed values from line-oriented input.
//
// A Reader prompts on its sink, reads one line from its source, converts the
// trimmed text into the target type and returns the value. Invalid input is
// never returned: each read or conversion failure produces a diagnostic,
// notifies the optional observer and prompts again. The loop ends only on a
// successful conversion or on a fatal condition (broken sink, exhausted
// source, poisoned console lock, cancelled context).
//
// Read blocks the calling goroutine. ReadSafe additionally holds a
// process-wide console lock for the whole call, so concurrent prompts cannot
// interleave. ReadContext awaits the read step under a context instead of
// blocking indefinitely.
package askline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/askline/askline/convert"
	"github.com/askline/askline/source"
	"github.com/askline/askline/translate"
)

// Source yields one line of text per call. io.EOF reports that the source is
// exhausted and will never yield another line.
type Source interface {
	ReadLine() (string, error)
}

// ContextSource is implemented by sources whose reads can be abandoned when a
// context ends.
type ContextSource interface {
	ReadLineContext(ctx context.Context) (string, error)
}

// PromptSource is implemented by sources that render the prompt themselves,
// such as a readline terminal. The Reader hands the prompt to the source
// instead of writing it to the sink.
type PromptSource interface {
	SetPrompt(prompt string)
}

// SecretSource is implemented by sources that can read a line without
// echoing it.
type SecretSource interface {
	ReadSecret() (string, error)
}

// Sink accepts prompt and diagnostic text. Flush must make everything written
// so far visible; the Reader flushes before every read so the prompt is on
// screen before it blocks.
type Sink interface {
	io.Writer
	Flush() error
}

// Observer is notified once per failed, retried attempt with a *ReadError or
// a *ConvertError. It is called for side effects only: its behavior never
// changes the retry decision, and it is not called for fatal conditions,
// which are returned to the caller instead.
type Observer func(err error)

// ParseFunc converts one line of trimmed input text into a T.
type ParseFunc[T any] func(text string) (T, error)

// Reader bundles an input source, an output sink and an optional observer.
// Methods on a Reader are safe for sequential use; for concurrent prompting
// use ReadSafe, which serializes whole calls across goroutines.
type Reader struct {
	source   Source
	sink     Sink
	observer Observer

	asyncMu sync.Mutex
	async   *source.Async
}

// NewReader creates a Reader over the given source and sink.
func NewReader(src Source, sink Sink) *Reader {
	return &Reader{
		source: src,
		sink:   sink,
	}
}

// Console returns a Reader over standard input and standard output.
func Console() *Reader {
	return NewReader(source.NewScanner(os.Stdin), NewWriterSink(os.Stdout))
}

// Interactive returns a Reader over the best available console source:
// readline with history and line editing when standard input is a terminal,
// a plain scanner otherwise.
func Interactive() *Reader {
	return NewReader(source.Interactive(), NewWriterSink(os.Stdout))
}

// SetObserver installs the error observer. A nil observer disables
// notification.
func (r *Reader) SetObserver(fn Observer) {
	r.observer = fn
}

// Source returns the input source.
func (r *Reader) Source() Source {
	return r.source
}

// Sink returns the output sink.
func (r *Reader) Sink() Sink {
	return r.sink
}

// Observer returns the installed observer, or nil.
func (r *Reader) Observer() Observer {
	return r.observer
}

// Close releases the source if it holds resources, such as a readline
// terminal or a background reader.
func (r *Reader) Close() error {
	r.asyncMu.Lock()
	if r.async != nil {
		r.async.Close()
	}
	r.asyncMu.Unlock()

	if c, ok := r.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Read prompts with label and reads until a line converts to a T using the
// canonical conversion for that type. It returns the converted value, or an
// error only for fatal conditions; invalid input is diagnosed and retried
// without bound.
func Read[T any](r *Reader, label string) (T, error) {
	parse, err := convert.For[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return run(r, label, convert.TypeName[T](), parse, r.readLine)
}

// ReadFunc is Read with an explicit conversion in place of the canonical one.
func ReadFunc[T any](r *Reader, label string, parse ParseFunc[T]) (T, error) {
	return run(r, label, convert.TypeName[T](), parse, r.readLine)
}

// ReadAs is ReadFunc with an explicit display name for the target type, for
// callers whose type is chosen at runtime, such as form definitions.
func ReadAs[T any](r *Reader, label, typeName string, parse ParseFunc[T]) (T, error) {
	return run(r, label, typeName, parse, r.readLine)
}

func (r *Reader) readLine() (string, error) {
	return r.source.ReadLine()
}

// run is the validated-prompt-retry loop shared by every variant. The read
// step is the only part that differs between them.
func run[T any](r *Reader, label, typeName string, parse func(string) (T, error), read func() (string, error)) (T, error) {
	var zero T

	for {
		if err := r.prompt(label, typeName); err != nil {
			return zero, err
		}

		line, err := read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return zero, ErrSourceClosed
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return zero, err
			}
			if werr := r.diag(translate.From("Input read error: %v\n", err)); werr != nil {
				return zero, werr
			}
			r.observe(&ReadError{Cause: err})
			continue
		}

		text := strings.TrimSpace(line)

		value, err := parse(text)
		if err == nil {
			return value, nil
		}
		if werr := r.diag(translate.From("Invalid input '%s'. Expected type: %s. Error: %v\n", text, typeName, err)); werr != nil {
			return zero, werr
		}
		r.observe(&ConvertError{Text: text, Type: typeName, Cause: err})
	}
}

// prompt makes the prompt visible before the read blocks: sources that render
// their own prompt receive it directly, everything else goes through the sink
// with an immediate flush.
func (r *Reader) prompt(label, typeName string) error {
	text := translate.From("%s (%s): ", label, typeName)

	if ps, ok := r.source.(PromptSource); ok {
		ps.SetPrompt(text)
		return nil
	}

	if _, err := io.WriteString(r.sink, text); err != nil {
		return &SinkError{Op: "write", Cause: err}
	}
	if err := r.sink.Flush(); err != nil {
		return &SinkError{Op: "flush", Cause: err}
	}
	return nil
}

// diag writes one diagnostic line to the sink.
func (r *Reader) diag(msg string) error {
	if _, err := io.WriteString(r.sink, msg); err != nil {
		return &SinkError{Op: "write", Cause: err}
	}
	if err := r.sink.Flush(); err != nil {
		return &SinkError{Op: "flush", Cause: err}
	}
	return nil
}

func (r *Reader) observe(err error) {
	if r.observer != nil {
		r.observer(err)
	}
}

// WriterSink buffers writes to an io.Writer and flushes on demand.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w, typically os.Stdout.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{
		w: bufio.NewWriter(w),
	}
}

func (s *WriterSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush makes all buffered output visible.
func (s *WriterSink) Flush() error {
	return s.w.Flush()
}
