package source

import (
	"io"
	"sync"
)

// Lines replays a fixed script of input lines and then reports io.EOF. It is
// safe for concurrent readers, so one script can feed several goroutines in
// tests of serialized prompting.
type Lines struct {
	lines []string
	mu    sync.Mutex
}

// NewLines creates a source that yields the given lines in order.
func NewLines(lines ...string) *Lines {
	return &Lines{
		lines: append([]string(nil), lines...),
	}
}

// ReadLine returns the next scripted line.
func (l *Lines) ReadLine() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.lines) == 0 {
		return "", io.EOF
	}

	line := l.lines[0]
	l.lines = l.lines[1:]
	return line, nil
}

// Remaining returns how many scripted lines have not been consumed yet.
func (l *Lines) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}
