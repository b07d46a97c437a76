package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behaviortracker/internal/core/observability/log"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.World.Width)
	assert.Equal(t, 16, cfg.World.Height)
	assert.Equal(t, log.LevelInfo, cfg.LogLevel())
	assert.Equal(t, 100*time.Millisecond, cfg.Server.TickInterval.Duration)
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.toml")
	data := `
[world]
width = 40
gravity = 0.25

[playback]
max_ticks = 64

[log]
level = "debug"

[server]
listen_addr = "127.0.0.1:9000"
tick_interval = "50ms"

[store]
path = "/tmp/rec.db"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 40, cfg.World.Width)
	assert.Equal(t, 16, cfg.World.Height)
	assert.Equal(t, 0.25, cfg.World.Gravity)
	assert.Equal(t, 64, cfg.Playback.MaxTicks)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddr)
	assert.Equal(t, 50*time.Millisecond, cfg.Server.TickInterval.Duration)
	assert.Equal(t, 1024, cfg.Server.ReadBuffer)
	assert.Equal(t, "/tmp/rec.db", cfg.Store.Path)

	w := cfg.NewWorld()
	assert.Equal(t, 40, w.Width)
	assert.Equal(t, 0.25, w.Gravity)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		data string
		err  error
	}{
		"unknown key":    {"[world]\ndepth = 3\n", ErrUnknownKey},
		"zero width":     {"[world]\nwidth = 0\n", ErrInvalid},
		"negative ticks": {"[playback]\nmax_ticks = -1\n", ErrInvalid},
		"zero ticks":     {"[playback]\nmax_ticks = 0\n", ErrInvalid},
		"bad level":      {"[log]\nlevel = \"loud\"\n", ErrInvalid},
		"zero interval":  {"[server]\ntick_interval = \"0s\"\n", ErrInvalid},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := Parse([]byte("[server]\ntick_interval = \"soon\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not toml ["))
	assert.Error(t, err)
}
