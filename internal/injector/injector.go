//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/behaviortracker/internal/config"
	"github.com/zeusync/behaviortracker/internal/core/pattern"
	"github.com/zeusync/behaviortracker/internal/core/storage"
	"github.com/zeusync/behaviortracker/internal/server"
)

func InitializeServer(ctx context.Context, cfg *config.Config, songs []*pattern.Song) (*server.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}

func InitializeStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
