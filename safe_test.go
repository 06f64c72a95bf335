package askline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askline/askline/source"
)

// resetConsoleLock clears poisoning a test leaves behind so later tests see a
// healthy lock.
func resetConsoleLock(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		console.mu.Lock()
		console.poisoned = false
		console.mu.Unlock()
	})
}

func TestReadSafe_Value(t *testing.T) {
	resetConsoleLock(t)
	r, sink := newTestReader("nope", "41")

	value, err := ReadSafe[int](r, "Age")

	require.NoError(t, err)
	assert.Equal(t, 41, value)
	assert.Contains(t, sink.String(), "Invalid input 'nope'.")
}

func TestReadSafe_CanonicalConversionTypes(t *testing.T) {
	resetConsoleLock(t)
	r, _ := newTestReader("2.5", "90m")

	ratio, err := ReadSafe[float64](r, "Ratio")
	require.NoError(t, err)
	assert.Equal(t, 2.5, ratio)

	window, err := ReadSafe[time.Duration](r, "Window")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, window)
}

func TestReadSafe_LockReleasedAfterCall(t *testing.T) {
	resetConsoleLock(t)
	r, _ := newTestReader("1", "2")

	first, err := ReadSafe[int](r, "A")
	require.NoError(t, err)
	second, err := ReadSafe[int](r, "B")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestReadSafe_TranscriptsDoNotInterleave(t *testing.T) {
	resetConsoleLock(t)

	sink := &recordingSink{}
	ra := NewReader(source.NewLines("oops", "1"), sink)
	rb := NewReader(source.NewLines("nope", "2"), sink)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := ReadSafe[int](ra, "A")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := ReadSafe[int](rb, "B")
		assert.NoError(t, err)
	}()
	wg.Wait()

	blockA := "A (int): " +
		"Invalid input 'oops'. Expected type: int. Error: strconv.ParseInt: parsing \"oops\": invalid syntax\n" +
		"A (int): "
	blockB := "B (int): " +
		"Invalid input 'nope'. Expected type: int. Error: strconv.ParseInt: parsing \"nope\": invalid syntax\n" +
		"B (int): "

	transcript := sink.String()
	assert.True(t, transcript == blockA+blockB || transcript == blockB+blockA,
		"prompt blocks interleaved:\n%s", transcript)
}

func TestReadSafe_PanicPoisonsLock(t *testing.T) {
	resetConsoleLock(t)

	var recovered any
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { recovered = recover() }()
		r := NewReader(source.NewLines("x"), &recordingSink{})
		_, _ = ReadSafeFunc(r, "Age", func(text string) (int, error) {
			panic("conversion exploded")
		})
	}()
	<-done

	// The panic reached the holder's own caller.
	assert.Equal(t, "conversion exploded", recovered)

	// Later serialized reads fail fast without touching the console.
	lines := source.NewLines("5")
	sink := &recordingSink{}
	r := NewReader(lines, sink)

	_, err := ReadSafe[int](r, "Age")

	assert.ErrorIs(t, err, ErrLockPoisoned)
	assert.Equal(t, 1, lines.Remaining())
	assert.Empty(t, sink.String())
}

func TestReadSafeFunc_CustomParse(t *testing.T) {
	resetConsoleLock(t)
	r, _ := newTestReader("  on  ")

	value, err := ReadSafeFunc(r, "Switch", func(text string) (bool, error) {
		return text == "on", nil
	})

	require.NoError(t, err)
	assert.True(t, value)
}
