package askline

import (
	"context"

	"github.com/askline/askline/convert"
	"github.com/askline/askline/source"
)

// ReadContext is Read with the read step awaiting ctx: while the loop waits
// for a line the calling goroutine can be released by cancelling the context,
// and ctx.Err() is returned without notifying the observer. Only the read
// awaits; prompting, trimming and converting run synchronously. A line that
// arrives after cancellation stays buffered for the Reader's next
// context-aware read. Concurrent callers are not serialized; use ReadSafe for
// that.
func ReadContext[T any](ctx context.Context, r *Reader, label string) (T, error) {
	parse, err := convert.For[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return runContext(ctx, r, label, convert.TypeName[T](), parse)
}

// ReadContextFunc is ReadContext with an explicit conversion in place of the
// canonical one.
func ReadContextFunc[T any](ctx context.Context, r *Reader, label string, parse ParseFunc[T]) (T, error) {
	return runContext(ctx, r, label, convert.TypeName[T](), parse)
}

// ReadAsContext is ReadContextFunc with an explicit display name for the
// target type.
func ReadAsContext[T any](ctx context.Context, r *Reader, label, typeName string, parse ParseFunc[T]) (T, error) {
	return runContext(ctx, r, label, typeName, parse)
}

func runContext[T any](ctx context.Context, r *Reader, label, typeName string, parse func(string) (T, error)) (T, error) {
	cs := r.contextSource()
	read := func() (string, error) {
		return cs.ReadLineContext(ctx)
	}
	return run(r, label, typeName, parse, read)
}

// contextSource returns the source's own cancellable read when it has one.
// Other sources are wrapped in a background reader created once per Reader
// and reused across calls, so an abandoned read's line is not lost.
func (r *Reader) contextSource() ContextSource {
	if cs, ok := r.source.(ContextSource); ok {
		return cs
	}

	r.asyncMu.Lock()
	defer r.asyncMu.Unlock()
	if r.async == nil {
		r.async = source.NewAsync(r.source)
	}
	return r.async
}
