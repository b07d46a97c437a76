package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/injector"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [song files...]",
		Short: "Stream song playbacks over websocket",
		Long: `Serve songs over HTTP until interrupted.

  GET /songs             lists the loaded songs
  GET /ws?song=<name>    streams one JSON frame per tick interval

Each connection plays on its own world. With --record every stream is
persisted to the recording store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
				cfg.Server.ListenAddr = addr
			}
			if record, _ := cmd.Flags().GetBool("record"); !record {
				cfg.Store.Path = ""
			} else if path, _ := cmd.Flags().GetString("store"); path != "" {
				cfg.Store.Path = path
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			songs, err := loadSongs(ctx, args)
			if err != nil {
				return err
			}

			srv, cleanup, err := injector.InitializeServer(ctx, cfg, songs)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d songs on %s\n", len(srv.Songs()), srv.Addr())

			stopCh := make(chan os.Signal, 1)
			notifySignals(stopCh)
			select {
			case <-stopCh:
			case <-ctx.Done():
			}

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := srv.Stop(stopCtx); err != nil {
				log.Provide().Warn("shutdown incomplete", log.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides config)")
	cmd.Flags().Bool("record", false, "Record every stream to the store")
	addStoreFlag(cmd)
	return cmd
}
