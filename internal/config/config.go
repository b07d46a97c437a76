// Package config loads the tracker's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/world"
)

var (
	ErrInvalid    = errors.New("config: invalid value")
	ErrUnknownKey = errors.New("config: unknown key")
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = "tracker.toml"

type Config struct {
	World    WorldConfig    `toml:"world"`
	Playback PlaybackConfig `toml:"playback"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type WorldConfig struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	Gravity float64 `toml:"gravity"`
}

type PlaybackConfig struct {
	// MaxTicks is the frame bound of every playback.
	MaxTicks int `toml:"max_ticks"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ServerConfig struct {
	ListenAddr   string   `toml:"listen_addr"`
	TickInterval Duration `toml:"tick_interval"`
	ReadBuffer   int      `toml:"read_buffer"`
	WriteBuffer  int      `toml:"write_buffer"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// Duration decodes TOML strings such as "100ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:   world.DefaultWidth,
			Height:  world.DefaultHeight,
			Gravity: 0.5,
		},
		Playback: PlaybackConfig{MaxTicks: 256},
		Log:      LogConfig{Level: log.LevelInfo.String()},
		Server: ServerConfig{
			ListenAddr:   ":8080",
			TickInterval: Duration{100 * time.Millisecond},
			ReadBuffer:   1024,
			WriteBuffer:  4096,
		},
		Store: StoreConfig{Path: "recordings.db"},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0:
		return fmt.Errorf("%w: world.width must be positive, got %d", ErrInvalid, c.World.Width)
	case c.World.Height <= 0:
		return fmt.Errorf("%w: world.height must be positive, got %d", ErrInvalid, c.World.Height)
	case c.Playback.MaxTicks <= 0:
		return fmt.Errorf("%w: playback.max_ticks must be positive, got %d", ErrInvalid, c.Playback.MaxTicks)
	case c.Server.ListenAddr == "":
		return fmt.Errorf("%w: server.listen_addr is empty", ErrInvalid)
	case c.Server.TickInterval.Duration <= 0:
		return fmt.Errorf("%w: server.tick_interval must be positive", ErrInvalid)
	case c.Server.ReadBuffer < 0 || c.Server.WriteBuffer < 0:
		return fmt.Errorf("%w: server buffers must not be negative", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// LogLevel returns the configured level. Validate guarantees it parses.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}

// NewWorld creates an empty world with the configured dimensions and gravity.
func (c *Config) NewWorld() *world.World {
	return world.New(c.World.Width, c.World.Height, c.World.Gravity)
}
