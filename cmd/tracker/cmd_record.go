package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/core/events/bus"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/player"
	"github.com/zeusync/behaviortracker/internal/core/storage"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [song file]",
		Short: "Play a song into the recording store",
		Long: `Play a song and persist every frame to the SQLite recording store.

Prints the session id to pass to 'tracker replay'. Without arguments the
built-in chase demo is recorded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-ticks") {
				cfg.Playback.MaxTicks, _ = cmd.Flags().GetInt("max-ticks")
			}
			ctx := cmd.Context()

			songs, err := loadSongs(ctx, args)
			if err != nil {
				return err
			}
			song := songs[0]

			st, cleanup, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := newLogger(cfg)
			b := bus.New()
			rec, err := storage.NewRecorder(ctx, st, b, song, logger)
			if err != nil {
				return err
			}
			p, err := player.New(song, cfg.NewWorld(),
				player.WithLogger(logger),
				player.WithEventBus(b, rec.SessionID()),
			)
			if err != nil {
				return err
			}
			res := p.RunAll(cfg.Playback.MaxTicks)
			if err := rec.Finish(ctx, res.Truncated); err != nil {
				return fmt.Errorf("recording %s incomplete: %w", rec.SessionID(), err)
			}

			summary := summaryLine{
				Song:        song.Name,
				Fingerprint: pattern.FingerprintHex(song),
				Session:     rec.SessionID(),
				Frames:      len(res.Frames),
				Truncated:   res.Truncated,
			}
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Session)
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().Int("max-ticks", 0, "Frame bound, 0 plays nothing (default: playback.max_ticks from config)")
	addStoreFlag(cmd)
	return cmd
}
