package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <session id>",
		Short: "Print a recorded session and verify its frame digests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st, cleanup, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			session, err := st.Session(ctx, args[0])
			if err != nil {
				return err
			}
			frames, err := st.Frames(ctx, session.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			if !jsonOut {
				fmt.Fprintf(out, "== %s (%s) recorded %s\n", session.Song, session.Fingerprint, session.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			for _, sf := range frames {
				if err := sf.Verify(); err != nil {
					return err
				}
				if jsonOut {
					if err := enc.Encode(frameLine{Song: session.Song, Frame: sf.Frame}); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, formatFrame(sf.Frame))
			}

			summary := summaryLine{
				Song:        session.Song,
				Fingerprint: session.Fingerprint,
				Session:     session.ID,
				Frames:      len(frames),
				Truncated:   session.Truncated,
			}
			if jsonOut {
				return enc.Encode(summary)
			}
			printSummary(cmd, summary)
			fmt.Fprintf(out, "verified %d frame digests\n", len(frames))
			return nil
		},
	}

	addStoreFlag(cmd)
	return cmd
}
