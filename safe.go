package askline

import (
	"sync"

	"github.com/askline/askline/convert"
)

// consoleLock serializes whole prompt calls across goroutines and remembers
// when a holder panicked while holding it.
type consoleLock struct {
	mu       sync.Mutex
	poisoned bool
}

// console is the single process-wide lock shared by every ReadSafe call.
var console consoleLock

func (l *consoleLock) acquire() error {
	l.mu.Lock()
	if l.poisoned {
		l.mu.Unlock()
		return ErrLockPoisoned
	}
	return nil
}

// release unlocks. A holder that did not complete normally poisons the lock
// for every later caller.
func (l *consoleLock) release(completed bool) {
	if !completed {
		l.poisoned = true
	}
	l.mu.Unlock()
}

// ReadSafe is Read wrapped in the process-wide console lock. The lock is held
// for the entire call, spanning every retry, so one goroutine's whole
// prompt-retry sequence completes before another's begins. Acquisition has no
// timeout. If a previous holder panicked, ReadSafe fails with
// ErrLockPoisoned instead of prompting over inconsistent console state; the
// panic itself still propagates to its own caller.
func ReadSafe[T any](r *Reader, label string) (T, error) {
	parse, err := convert.For[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return readLocked(r, label, convert.TypeName[T](), parse)
}

// ReadSafeFunc is ReadFunc wrapped in the process-wide console lock.
func ReadSafeFunc[T any](r *Reader, label string, parse ParseFunc[T]) (T, error) {
	return readLocked(r, label, convert.TypeName[T](), parse)
}

func readLocked[T any](r *Reader, label, typeName string, parse func(string) (T, error)) (T, error) {
	var zero T
	if err := console.acquire(); err != nil {
		return zero, err
	}

	completed := false
	defer func() {
		console.release(completed)
	}()

	value, err := run(r, label, typeName, parse, r.readLine)
	completed = true
	return value, err
}
