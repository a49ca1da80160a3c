package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore(8)
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Get("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("deadbeef", 100))
	off, ok, err := s.Get("deadbeef")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(100), off)

	require.NoError(t, s.Delete("deadbeef"))
	_, ok, err = s.Get("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewMemoryStore(2)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("first", 1))
	require.NoError(t, s.Set("second", 2))

	// Touch "first" so "second" becomes the eviction candidate.
	_, ok, err := s.Get("first")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Set("third", 3))

	_, ok, err = s.Get("second")
	require.NoError(t, err)
	assert.False(t, ok)

	off, ok, err := s.Get("first")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), off)
}

func TestMemoryStore_ManyEntries(t *testing.T) {
	s := NewMemoryStore(0) // default bound
	t.Cleanup(func() { _ = s.Close() })

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("fp-%03d", i), int64(i)))
	}
	off, ok, err := s.Get("fp-050")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(50), off)
}
