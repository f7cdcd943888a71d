//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up. The
// returned cleanup closes storage and the Neo4j driver.
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Observability
		provideMetricsRegistry,
		provideSearchMetrics,

		// Providers
		provideHTTPDoer,
		provideJobProviders,

		// Archive - Neo4j
		provideArchive,

		// Services
		provideJobService,
		provideStore,
		provideTracker,

		// Google Sheets
		provideExporter,
		provideSheetDefaults,

		newResources,
	)

	return nil, nil, nil
}
