package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/behaviortracker/internal/core/pattern"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [song file]",
		Short: "Print a song's patterns as tracker grids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			yamlOut, _ := cmd.Flags().GetBool("yaml")
			songs, err := loadSongs(cmd.Context(), args)
			if err != nil {
				return err
			}
			song := songs[0]

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(pattern.ToDocument(song))
			}
			if yamlOut {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(pattern.ToDocument(song)); err != nil {
					return err
				}
				return enc.Close()
			}

			fmt.Fprintf(out, "Song: %s  sequence: %s", song.Name, strings.Join(song.Sequence, " > "))
			if song.Loops() {
				fmt.Fprintf(out, "  loop: %d", song.LoopPoint)
			}
			fmt.Fprintln(out)

			seen := make(map[string]bool, len(song.Patterns))
			for i := range song.Sequence {
				p, err := song.Pattern(i)
				if err != nil {
					return err
				}
				if seen[p.Name] {
					continue
				}
				seen[p.Name] = true
				fmt.Fprintf(out, "\n%s\n%s", p, pattern.FormatGrid(p))
			}
			return nil
		},
	}

	cmd.Flags().Bool("yaml", false, "Print the song document as YAML")
	return cmd
}
