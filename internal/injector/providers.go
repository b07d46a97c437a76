package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/behaviortracker/internal/config"
	"github.com/zeusync/behaviortracker/internal/core/observability/log"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/storage"
	"github.com/zeusync/behaviortracker/internal/core/storage/sqlite"
	"github.com/zeusync/behaviortracker/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideStore,
	ProvideServerConfig,
	ProvideServer,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

// ProvideStore opens the recording database. An empty store path disables
// recording and yields a nil store.
func ProvideStore(ctx context.Context, cfg *config.Config, logger log.Log) (storage.Store, func(), error) {
	if cfg.Store.Path == "" {
		return nil, func() {}, nil
	}
	st, err := sqlite.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", log.Error(err))
		}
	}
	return st, cleanup, nil
}

func ProvideServerConfig(cfg *config.Config) server.Config {
	sc := server.DefaultServerConfig()
	sc.ListenAddr = cfg.Server.ListenAddr
	sc.TickInterval = cfg.Server.TickInterval.Duration
	sc.ReadBufferSize = cfg.Server.ReadBuffer
	sc.WriteBufferSize = cfg.Server.WriteBuffer
	if cfg.Playback.MaxTicks > 0 {
		sc.MaxTicks = cfg.Playback.MaxTicks
	}
	sc.WorldWidth = cfg.World.Width
	sc.WorldHeight = cfg.World.Height
	sc.WorldGravity = cfg.World.Gravity
	return sc
}

func ProvideServer(sc server.Config, songs []*pattern.Song, logger log.Log, st storage.Store) (*server.Server, error) {
	opts := []server.Option{server.WithLogger(logger)}
	if st != nil {
		opts = append(opts, server.WithStore(st))
	}
	return server.NewServer(sc, songs, opts...)
}
