package multiline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(a *Assembler) []string {
	var out []string
	for {
		select {
		case rec := <-a.Recv():
			out = append(out, string(rec))
		default:
			return out
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Mode:             ModeContinueThrough,
		StartPattern:     `^\[`,
		ConditionPattern: `^\s`,
		Timeout:          time.Second,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Mode = "sideways"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.StartPattern = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Timeout = 0
	assert.Error(t, bad.Validate())
}

func TestAssembler_ContinueThrough(t *testing.T) {
	a, err := New(Config{
		Mode:             ModeContinueThrough,
		StartPattern:     `^\[`,
		ConditionPattern: `^\s`,
		Timeout:          time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Write([]byte("[error] boom"))
	a.Write([]byte("  at frame one"))
	a.Write([]byte("  at frame two"))
	a.Write([]byte("[info] fine"))

	assert.Equal(t, []string{"[error] boom\n  at frame one\n  at frame two"}, collect(a))

	a.Flush()
	assert.Equal(t, []string{"[info] fine"}, collect(a))
}

func TestAssembler_NonStartLinePassesThrough(t *testing.T) {
	a, err := New(Config{
		Mode:             ModeContinueThrough,
		StartPattern:     `^\[`,
		ConditionPattern: `^\s`,
		Timeout:          time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Write([]byte("stray line"))
	assert.Equal(t, []string{"stray line"}, collect(a))
}

func TestAssembler_HaltBefore(t *testing.T) {
	a, err := New(Config{
		Mode:             ModeHaltBefore,
		StartPattern:     `^\d{4}-`,
		ConditionPattern: `^\d{4}-`,
		Timeout:          time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Write([]byte("2026-01-01 start"))
	a.Write([]byte("continued"))
	a.Write([]byte("2026-01-02 next"))

	assert.Equal(t, []string{"2026-01-01 start\ncontinued"}, collect(a))

	a.Flush()
	assert.Equal(t, []string{"2026-01-02 next"}, collect(a))
}

func TestAssembler_TimeoutFlush(t *testing.T) {
	a, err := New(Config{
		Mode:             ModeContinueThrough,
		StartPattern:     `^\[`,
		ConditionPattern: `^\s`,
		Timeout:          50 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Write([]byte("[stuck] waiting"))

	select {
	case rec := <-a.Recv():
		assert.Equal(t, "[stuck] waiting", string(rec))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout flush never fired")
	}
}
