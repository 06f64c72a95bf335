package source

import (
	"bufio"
	"io"
)

// Scanner reads lines from an io.Reader, typically standard input. Once the
// underlying stream ends the scanner cannot resume: the first failed read
// reports the stream's error if one occurred, and every read after that
// reports io.EOF.
type Scanner struct {
	scanner *bufio.Scanner
	done    bool
}

// NewScanner creates a line source over r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		scanner: bufio.NewScanner(r),
	}
}

// ReadLine returns the next line without its trailing newline.
func (s *Scanner) ReadLine() (string, error) {
	if s.done {
		return "", io.EOF
	}

	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
