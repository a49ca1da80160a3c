package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBatcherEnqueue(t *testing.T) {
	b := NewBatcher(2, time.Second, nil, nil, "test")

	b.Enqueue("one")
	b.Enqueue("two")

	assert.Equal(t, "one", <-b.Ch)
	assert.Equal(t, "two", <-b.Ch)
}

func TestBatcherFilters(t *testing.T) {
	b := NewBatcher(4, time.Second, []string{"keep"}, []string{"drop"}, "test")

	b.Enqueue("keep this line")
	b.Enqueue("keep but drop this one")
	b.Enqueue("unrelated line")

	assert.Equal(t, "keep this line", <-b.Ch)
	select {
	case line := <-b.Ch:
		t.Fatalf("unexpected line passed the filter: %q", line)
	default:
	}
}

func TestBatcherDropsWhenFull(t *testing.T) {
	b := NewBatcher(1, time.Second, nil, nil, "test")

	// Capacity is size*2; the third enqueue must drop, not block.
	done := make(chan struct{})
	go func() {
		b.Enqueue("a")
		b.Enqueue("b")
		b.Enqueue("c")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full buffer")
	}
	assert.Len(t, b.Ch, 2)
}
