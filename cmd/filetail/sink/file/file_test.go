package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.NoError(t, Config{Path: "/tmp/out.log"}.Validate())
}

func TestFileSinkWritesLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.log")
	s, err := New(Config{Path: p, MaxSizeMB: 10}, 100, time.Hour, nil, nil)
	require.NoError(t, err)

	s.Enqueue("alpha")
	s.Enqueue("beta")
	require.NoError(t, s.Stop())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", string(data))
}

func TestFileSinkAppliesFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "filtered.log")
	s, err := New(Config{Path: p}, 100, time.Hour, []string{"keep"}, nil)
	require.NoError(t, err)

	s.Enqueue("keep me")
	s.Enqueue("discard me")
	require.NoError(t, s.Stop())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
}
