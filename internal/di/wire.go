//go:build wireinject
// +build wireinject

package di

import (
	"RatePull/pkg/config"
	"RatePull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideRatingStore,
		ProvideEventPublisher,
		ProvideHistoryStore,

		// Upstream services
		ProvideFMPClient,
		ProvideSnapshotSources,
		ProvideCompleter,
		ProvidePriceBook,

		// Use cases
		ProvideAggregator,
		ProvideRecorder,
		ProvidePriceCollector,
		ProvidePipeline,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
