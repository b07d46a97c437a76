package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/pkg/concurrent"
)

type validation struct {
	Path        string `json:"path"`
	Song        string `json:"song,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Patterns    int    `json:"patterns,omitempty"`
	Ticks       int    `json:"ticks,omitempty"`
	LoopPoint   int    `json:"loop_point"`
	Error       string `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <song files...>",
		Short: "Check song documents and print their fingerprints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			results, err := concurrent.Map(cmd.Context(), args, loadLimit, func(_ context.Context, path string) (validation, error) {
				v := validation{Path: path, LoopPoint: pattern.NoLoop}
				song, err := loadSong(path)
				if err != nil {
					v.Error = err.Error()
					return v, nil
				}
				v.Song = song.Name
				v.Fingerprint = pattern.FingerprintHex(song)
				v.Patterns = len(song.Patterns)
				v.Ticks = song.TotalLength()
				v.LoopPoint = song.LoopPoint
				return v, nil
			})
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, v := range results {
				if v.Error != "" {
					failed++
				}
				if jsonOut {
					json.NewEncoder(out).Encode(v)
					continue
				}
				if v.Error != "" {
					fmt.Fprintf(out, "FAIL %s\n", v.Error)
					continue
				}
				fmt.Fprintf(out, "ok   %s  %s  %s  (%d patterns, %d ticks", v.Path, v.Song, v.Fingerprint, v.Patterns, v.Ticks)
				if v.LoopPoint >= 0 {
					fmt.Fprintf(out, ", loops to %d", v.LoopPoint)
				}
				fmt.Fprintln(out, ")")
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d songs invalid", failed, len(results))
			}
			return nil
		},
	}
}
