//go:build wireinject
// +build wireinject

package di

import (
	"WaveScan/pkg/config"
	"WaveScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisHandle,
		ProvideCacheService,

		// Repositories
		ProvideCHBarStore,
		ProvideBarStore,
		ProvideBarSink,
		ProvideSignalStore,
		ProvideSignalPublisher,
		ProvideTickStream,

		// Analysis core
		ProvideAnalyzer,

		// Use cases
		ProvideAnalyzeUseCase,
		ProvideScanUseCase,
		ProvideBarsUseCase,
		ProvideSignalProcessor,
		ProvideKafkaSignalsHandler,
		ProvideRescanJob,
		ProvideRescanQueue,
		ProvideTickCollector,
		ProvideBackfill,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
