package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAllow(t *testing.T) {
	t.Run("no filters allows everything", func(t *testing.T) {
		f := &filter{}
		assert.True(t, f.allow("anything at all"))
	})

	t.Run("include requires a match", func(t *testing.T) {
		f := &filter{includes: []string{"ERROR", "WARN"}}
		assert.True(t, f.allow("2026-01-01 ERROR boom"))
		assert.True(t, f.allow("WARN slow request"))
		assert.False(t, f.allow("INFO all good"))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		f := &filter{includes: []string{"ERROR"}, excludes: []string{"healthcheck"}}
		assert.True(t, f.allow("ERROR db down"))
		assert.False(t, f.allow("ERROR healthcheck failed"))
	})

	t.Run("empty include pattern matches all", func(t *testing.T) {
		f := &filter{includes: []string{""}}
		assert.True(t, f.allow("whatever"))
	})

	t.Run("empty exclude pattern is ignored", func(t *testing.T) {
		f := &filter{excludes: []string{""}}
		assert.True(t, f.allow("whatever"))
	})
}
