// Package source provides line-oriented input sources for prompt readers:
// a bufio-backed scanner for plain streams, a readline-backed interactive
// source with history and completion, a scripted source for tests, and an
// asynchronous wrapper that makes any source cancellable.
package source

// LineReader is the capability shared by every input source: return the next
// line of text, or an error. io.EOF reports that the source is exhausted and
// will never yield another line.
type LineReader interface {
	ReadLine() (string, error)
}
