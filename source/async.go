package source

import (
	"context"
	"io"
	"sync"
)

// Async wraps a line source with a background reader so the next line can be
// awaited under a context. At most one read is in flight at a time: when a
// caller gives up before its line arrives, the line stays buffered and is
// handed to the next caller, so cancellation never loses input.
type Async struct {
	inner LineReader

	sem      chan struct{} // serializes callers
	requests chan struct{} // wakes the background reader for one line
	results  chan result   // carries the one in-flight line

	pending bool // a read is in flight; guarded by sem

	start     sync.Once
	closeOnce sync.Once
	closed    chan struct{}
}

type result struct {
	line string
	err  error
}

// NewAsync wraps inner. The background reader starts on first use.
func NewAsync(inner LineReader) *Async {
	return &Async{
		inner:    inner,
		sem:      make(chan struct{}, 1),
		requests: make(chan struct{}, 1),
		results:  make(chan result, 1),
		closed:   make(chan struct{}),
	}
}

func (a *Async) pump() {
	for {
		select {
		case <-a.closed:
			return
		case <-a.requests:
		}

		line, err := a.inner.ReadLine()

		select {
		case a.results <- result{line: line, err: err}:
		case <-a.closed:
			return
		}
	}
}

// ReadLineContext returns the next line, or ctx.Err() when the context ends
// first. A line that outlived its original caller is delivered to the next
// call instead of being dropped.
func (a *Async) ReadLineContext(ctx context.Context) (string, error) {
	a.start.Do(func() { go a.pump() })

	select {
	case a.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-a.closed:
		return "", io.EOF
	}
	defer func() { <-a.sem }()

	if !a.pending {
		// The request channel is empty whenever no read is in flight,
		// so this send cannot block.
		select {
		case a.requests <- struct{}{}:
			a.pending = true
		case <-a.closed:
			return "", io.EOF
		}
	}

	select {
	case res := <-a.results:
		a.pending = false
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-a.closed:
		return "", io.EOF
	}
}

// ReadLine blocks until the next line is available.
func (a *Async) ReadLine() (string, error) {
	return a.ReadLineContext(context.Background())
}

// Close stops the background reader. A read already blocked on the inner
// source finishes in the background and its line is discarded. Close is
// idempotent and reads after Close report io.EOF.
func (a *Async) Close() error {
	a.closeOnce.Do(func() {
		close(a.closed)
	})
	return nil
}
