package source

import (
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines_ReadLine_ReplaysInOrder(t *testing.T) {
	l := NewLines("a", "b", "c")

	for _, want := range []string{"a", "b", "c"} {
		line, err := l.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := l.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLines_ReadLine_EmptyScript(t *testing.T) {
	l := NewLines()

	_, err := l.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, l.Remaining())
}

func TestLines_Remaining_CountsDown(t *testing.T) {
	l := NewLines("a", "b")

	assert.Equal(t, 2, l.Remaining())

	_, err := l.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, 1, l.Remaining())
}

func TestLines_ReadLine_ConcurrentReaders(t *testing.T) {
	l := NewLines("a", "b", "c", "d")

	results := make(chan string, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			line, err := l.ReadLine()
			assert.NoError(t, err)
			results <- line
		}()
	}
	wg.Wait()
	close(results)

	var got []string
	for line := range results {
		got = append(got, line)
	}
	sort.Strings(got)

	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	assert.Equal(t, 0, l.Remaining())
}

func TestNewLines_CopiesScript(t *testing.T) {
	script := []string{"a", "b"}
	l := NewLines(script...)

	script[0] = "mutated"

	line, err := l.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a", line)
}
