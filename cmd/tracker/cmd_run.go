package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/pkg/concurrent"
)

type frameLine struct {
	Song  string       `json:"song"`
	Frame player.Frame `json:"frame"`
}

type summaryLine struct {
	Song        string `json:"song"`
	Fingerprint string `json:"fingerprint"`
	Session     string `json:"session,omitempty"`
	Frames      int    `json:"frames"`
	Truncated   bool   `json:"truncated"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [song files...]",
		Short: "Play songs and print their frames",
		Long: `Play each song on a fresh world and print every frame.

Songs are played concurrently; output keeps argument order. Without
arguments the built-in chase demo is played.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-ticks") {
				cfg.Playback.MaxTicks, _ = cmd.Flags().GetInt("max-ticks")
			}
			logger := newLogger(cfg)

			ctx := cmd.Context()
			songs, err := loadSongs(ctx, args)
			if err != nil {
				return err
			}

			results, err := concurrent.Map(ctx, songs, loadLimit, func(_ context.Context, song *pattern.Song) (player.Result, error) {
				p, err := player.New(song, cfg.NewWorld(), player.WithLogger(logger))
				if err != nil {
					return player.Result{}, err
				}
				return p.RunAll(cfg.Playback.MaxTicks), nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for i, song := range songs {
				res := results[i]
				summary := summaryLine{
					Song:        song.Name,
					Fingerprint: pattern.FingerprintHex(song),
					Frames:      len(res.Frames),
					Truncated:   res.Truncated,
				}
				if jsonOut {
					for _, f := range res.Frames {
						if err := enc.Encode(frameLine{Song: song.Name, Frame: f}); err != nil {
							return err
						}
					}
					if err := enc.Encode(summary); err != nil {
						return err
					}
					continue
				}

				fmt.Fprintf(out, "== %s (%s)\n", song.Name, summary.Fingerprint)
				for _, f := range res.Frames {
					fmt.Fprintln(out, formatFrame(f))
				}
				printSummary(cmd, summary)
			}
			return nil
		},
	}

	cmd.Flags().Int("max-ticks", 0, "Frame bound, 0 plays nothing (default: playback.max_ticks from config)")
	return cmd
}

func printSummary(cmd *cobra.Command, s summaryLine) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "-- %s: %d frames", s.Song, s.Frames)
	if s.Truncated {
		fmt.Fprint(out, " (truncated at max ticks)")
	}
	fmt.Fprintln(out)
}
