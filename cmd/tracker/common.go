package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/config"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/pkg/concurrent"
)

// loadLimit caps concurrent song loads and playbacks.
const loadLimit = 4

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cfg *config.Config) log.Log {
	return log.New(cfg.LogLevel())
}

// loadSong decodes a YAML or JSON song document, chosen by file extension.
func loadSong(path string) (*pattern.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var doc *pattern.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err = pattern.LoadJSON(f)
	case ".yaml", ".yml":
		doc, err = pattern.LoadYAML(f)
	default:
		return nil, fmt.Errorf("%s: unsupported song format (want .yaml, .yml or .json)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	song, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return song, nil
}

// loadSongs loads every path concurrently, keeping argument order. With no
// paths it returns the demo song.
func loadSongs(ctx context.Context, paths []string) ([]*pattern.Song, error) {
	if len(paths) == 0 {
		return []*pattern.Song{pattern.DemoSong()}, nil
	}
	return concurrent.Map(ctx, paths, loadLimit, func(_ context.Context, path string) (*pattern.Song, error) {
		return loadSong(path)
	})
}

// formatFrame renders a frame as one compact text line followed by its
// messages.
func formatFrame(f player.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T%03d %s:%02d |", f.Tick, f.Pattern, f.PatternTick)

	names := make([]string, 0, len(f.Entities))
	for name := range f.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := f.Entities[name]
		fmt.Fprintf(&b, " %s(%g,%g)", name, e.X, e.Y)
		if !e.Alive {
			b.WriteString("[dead]")
		}
		if e.Speech != "" {
			fmt.Fprintf(&b, "%q", e.Speech)
		}
	}
	for _, msg := range f.Messages {
		b.WriteString("\n      ")
		b.WriteString(msg)
	}
	return b.String()
}
