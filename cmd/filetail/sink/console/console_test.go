package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards concurrent writes from the flush goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsoleSinkFlushesOnStop(t *testing.T) {
	buf := &syncBuffer{}
	s := NewWriter(buf, 100, time.Hour, nil, nil)

	s.Enqueue("first")
	s.Enqueue("second")
	require.NoError(t, s.Stop())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"first", "second"}, lines)
}

func TestConsoleSinkFlushesFullBatch(t *testing.T) {
	buf := &syncBuffer{}
	s := NewWriter(buf, 2, time.Hour, nil, nil)

	s.Enqueue("a")
	s.Enqueue("b")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Count(buf.String(), "\n") >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, s.Stop())
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Stream: "stdout"}.Validate())
	assert.NoError(t, Config{Stream: "stderr"}.Validate())
	assert.Error(t, Config{Stream: "socket"}.Validate())
}
