package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelRoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelSilent} {
		assert.Equal(t, lvl, fromZapLevel(toZapLevel(lvl)), lvl.String())
	}
}

func TestNopLoggerAcceptsAllFields(t *testing.T) {
	l := NewNop()
	scoped := l.With(String("component", "test"))
	scoped.Info("hello",
		Bool("b", true),
		Int("i", 1),
		Int64("i64", 2),
		Uint64("u64", 3),
		Float64("f", 1.5),
		Strings("s", []string{"a"}),
		Error(errors.New("boom")),
		Any("any", struct{}{}),
	)
	assert.Equal(t, LevelSilent, l.GetLevel())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
}
