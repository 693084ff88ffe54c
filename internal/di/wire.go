//go:build wireinject
// +build wireinject

package di

import (
	"ShowPulse/pkg/config"
	"ShowPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Upstream clients
		ProvideQuoteSource,
		ProvideProviders,

		// Infrastructure
		ProvideSnapshotArchive,
		ProvideSnapshotPublisher,
		ProvideKafkaConsumer,

		// Pipeline
		ProvideOrchestrator,
		ProvideScorer,
		ProvideSnapshotStore,
		ProvideRebuilder,
		ProvideRefreshHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
