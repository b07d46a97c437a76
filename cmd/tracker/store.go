package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/config"
	"github.com/zeusync/behaviortracker/internal/core/storage"
	"github.com/zeusync/behaviortracker/internal/injector"
)

// openStore opens the recording store named by --store or the config.
func openStore(cmd *cobra.Command, cfg *config.Config) (storage.Store, func(), error) {
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		cfg.Store.Path = path
	}
	if cfg.Store.Path == "" {
		return nil, nil, errors.New("no recording store configured (set [store] path or --store)")
	}
	return injector.InitializeStore(cmd.Context(), cfg)
}

func addStoreFlag(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Path to the recording database (overrides config)")
}
