package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, cleanup, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			sessions, err := st.Sessions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(sessions)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No recorded sessions.")
				return nil
			}
			for _, s := range sessions {
				status := "finished"
				switch {
				case !s.Finished:
					status = "incomplete"
				case s.Truncated:
					status = "truncated"
				}
				fmt.Fprintf(out, "%s  %-16s %5d frames  %-10s %s\n",
					s.ID, s.Song, s.Frames, status, s.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	addStoreFlag(cmd)
	return cmd
}
