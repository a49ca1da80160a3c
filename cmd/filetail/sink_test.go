package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSinkConsoleDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tailer.File = "x.log"

	s, err := buildSink(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, s.Stop())
}

func TestBuildSinkFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tailer.File = "x.log"
	cfg.Sink.Type = "file"
	cfg.Sink.File.Path = filepath.Join(t.TempDir(), "out.log")

	s, err := buildSink(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, s.Stop())
}

func TestBuildSinkUnsupported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sink.Type = "carrier-pigeon"

	_, err := buildSink(cfg)
	assert.Error(t, err)
}
