package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Behavior tracker - tick-sequenced entity scripting",
		Long: `tracker plays songs: sequences of patterns whose channels script one
entity each, one command per tick, against a small 2D world.

Songs are YAML or JSON documents. Frames can be printed, recorded to a
SQLite store, replayed, or streamed over a websocket.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON lines")
	rootCmd.PersistentFlags().String("config", "", "Path to tracker.toml (default ./tracker.toml if present)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newShowCmd(),
		newRecordCmd(),
		newReplayCmd(),
		newSessionsCmd(),
		newServeCmd(),
	)
	return rootCmd
}
