// Package term provides terminal detection and ANSI color helpers for the
// interactive pieces of askline. All output respects NO_COLOR and TERM=dumb
// for graceful fallbacks.
package term

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

var (
	// C is the global color helper instance
	C = &Colors{}

	// TTY detection cache (per file descriptor)
	ttyCache = make(map[*os.File]bool)
	ttyMu    sync.RWMutex

	// enabled controls whether colors/output enhancements are enabled
	enabled     bool
	enabledMu   sync.Mutex
	enabledInit bool
)

// Colors provides ANSI color codes with graceful fallbacks
type Colors struct{}

func (c *Colors) Bold(s string) string  { return colorize(s, "\033[1m", "\033[0m") }
func (c *Colors) Green(s string) string { return colorize(s, "\033[32m", "\033[0m") }
func (c *Colors) Red(s string) string   { return colorize(s, "\033[31m", "\033[0m") }
func (c *Colors) Cyan(s string) string  { return colorize(s, "\033[36m", "\033[0m") }

// colorize applies ANSI color codes if colors are enabled
func colorize(s, code, reset string) string {
	if !isEnabled() {
		return s
	}
	return code + s + reset
}

// isEnabled checks if colors/enhancements should be enabled
func isEnabled() bool {
	enabledMu.Lock()
	defer enabledMu.Unlock()

	if !enabledInit {
		// NO_COLOR takes precedence
		if os.Getenv("NO_COLOR") != "" {
			enabled = false
			enabledInit = true
			return enabled
		}

		if os.Getenv("ASKLINE_PRETTY") == "1" {
			enabled = true
			enabledInit = true
			return enabled
		}

		if os.Getenv("TERM") == "dumb" {
			enabled = false
			enabledInit = true
			return enabled
		}

		if runtime.GOOS == "windows" {
			enabled = DetectTTY(os.Stdout) && windowsSupportsANSI()
		} else {
			enabled = DetectTTY(os.Stdout)
		}
		enabledInit = true
	}
	return enabled
}

// windowsSupportsANSI checks if Windows console supports ANSI codes
func windowsSupportsANSI() bool {
	if term := os.Getenv("TERM"); term != "" && term != "dumb" {
		return true
	}
	// Assume Windows 10+ supports ANSI (we can't reliably detect older versions)
	return true
}

// DetectTTY checks if the given file descriptor is a terminal
func DetectTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	ttyMu.RLock()
	if cached, ok := ttyCache[f]; ok {
		ttyMu.RUnlock()
		return cached
	}
	ttyMu.RUnlock()

	fileInfo, err := f.Stat()
	isTTY := err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0

	ttyMu.Lock()
	ttyCache[f] = isTTY
	ttyMu.Unlock()

	return isTTY
}

// Ellipsize truncates a string to maxLen with ellipsis
func Ellipsize(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}

	return string(runes[:maxLen-3]) + "..."
}

// UserError represents a user-facing error with a helpful hint
type UserError struct {
	Cause    string
	NextHint string
}

func (e *UserError) Error() string {
	if e.NextHint != "" {
		return fmt.Sprintf("%s\n  → %s", e.Cause, e.NextHint)
	}
	return e.Cause
}

// NewUserError creates a new user error
func NewUserError(cause, nextHint string) error {
	return &UserError{Cause: cause, NextHint: nextHint}
}

// PrintError prints an error in a user-friendly format
func PrintError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", C.Red("✗"), err.Error())
}

// EnableColors forces colors to be enabled (for --pretty flag)
func EnableColors() {
	enabledMu.Lock()
	defer enabledMu.Unlock()
	enabled = true
	enabledInit = true
}

// DisableColors forces colors to be disabled
func DisableColors() {
	enabledMu.Lock()
	defer enabledMu.Unlock()
	enabled = false
	enabledInit = true
}
