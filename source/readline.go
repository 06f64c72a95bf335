package source

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/askline/askline/internal/term"
)

// Readline is an interactive line source backed by readline, with line
// editing, persistent history, optional completion and no-echo secret reads.
// It renders the prompt itself: callers update it through SetPrompt.
type Readline struct {
	rl     *readline.Instance
	prompt string
}

// defaultHistoryPath returns a path for the history file
func defaultHistoryPath() string {
	// Try to use user's home directory
	if u, err := user.Current(); err == nil {
		historyDir := filepath.Join(u.HomeDir, ".askline")
		os.MkdirAll(historyDir, 0755)
		return filepath.Join(historyDir, "history")
	}

	// Fallback to /tmp if we can't get home directory
	return "/tmp/askline_history"
}

// NewReadline creates an interactive source with the default history file and
// no completion.
func NewReadline(prompt string) (*Readline, error) {
	return NewReadlineWithHistory(prompt, "")
}

// NewReadlineWithHistory creates an interactive source with a specific
// history file. If historyPath is empty, the default path is used.
func NewReadlineWithHistory(prompt, historyPath string) (*Readline, error) {
	return NewReadlineWithCompletions(prompt, historyPath, nil)
}

// NewReadlineWithCompletions creates an interactive source with a specific
// history file and static completion words.
func NewReadlineWithCompletions(prompt, historyPath string, words []string) (*Readline, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(words))
	for _, word := range words {
		items = append(items, readline.PcItem(word))
	}

	if historyPath == "" {
		historyPath = defaultHistoryPath()
	}

	config := &readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyPath,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "",
		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	return &Readline{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// SetPrompt updates the prompt rendered before the next read.
func (r *Readline) SetPrompt(prompt string) {
	r.prompt = prompt
	r.rl.SetPrompt(prompt)
}

// ReadLine reads one line with editing and history. An interrupt (Ctrl-C) is
// reported as io.EOF, the same way Ctrl-D is.
func (r *Readline) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}
	return line, nil
}

// ReadSecret reads one line without echoing it, for passwords and tokens.
func (r *Readline) ReadSecret() (string, error) {
	secret, err := r.rl.ReadPassword(r.prompt)
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}
	return string(secret), nil
}

// Close releases the terminal.
func (r *Readline) Close() error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Interactive returns the best line source for the current process: a
// Readline source when standard input is a terminal and readline can
// initialize, otherwise a plain Scanner over standard input.
func Interactive() LineReader {
	if term.DetectTTY(os.Stdin) && term.DetectTTY(os.Stdout) {
		if rl, err := NewReadline(""); err == nil {
			return rl
		}
	}
	return NewScanner(os.Stdin)
}
