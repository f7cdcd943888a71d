package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/jobscout/internal/domain/job/providers/adzuna"
	"github.com/honeycarbs/jobscout/internal/domain/job/providers/demo"
	jsearchProvider "github.com/honeycarbs/jobscout/internal/domain/job/providers/jsearch"
	reedProvider "github.com/honeycarbs/jobscout/internal/domain/job/providers/reed"
	"github.com/honeycarbs/jobscout/internal/domain/tracker"
	"github.com/honeycarbs/jobscout/internal/mcp/tools"
	"github.com/honeycarbs/jobscout/internal/metrics"
	"github.com/honeycarbs/jobscout/internal/storage/kv"
	storage "github.com/honeycarbs/jobscout/internal/storage/neo4j"
	"github.com/honeycarbs/jobscout/pkg/adzuna"
	"github.com/honeycarbs/jobscout/pkg/httpx"
	"github.com/honeycarbs/jobscout/pkg/jsearch"
	"github.com/honeycarbs/jobscout/pkg/logging"
	n4j "github.com/honeycarbs/jobscout/pkg/neo4j"
	"github.com/honeycarbs/jobscout/pkg/reed"
	"github.com/honeycarbs/jobscout/pkg/sheets"
)

// provideMetricsRegistry builds the registry served on /metrics
func provideMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// provideSearchMetrics registers the search collectors
func provideSearchMetrics(reg *prometheus.Registry) *metrics.Search {
	return metrics.NewSearch(reg)
}

// provideHTTPDoer builds the shared provider HTTP client with proxy fallback
func provideHTTPDoer(cfg config.Config, logger *logging.Logger) httpx.Doer {
	return httpx.NewProxyDoer(
		&http.Client{Timeout: cfg.HTTP.Timeout},
		cfg.HTTP.Proxies,
		logger.Named("http"),
	)
}

// provideJobProviders builds an adapter for every enabled provider
func provideJobProviders(cfg config.Config, doer httpx.Doer, logger *logging.Logger) ([]job.Provider, error) {
	var providers []job.Provider
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		p, err := newProvider(pc, doer)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", pc.Name, err)
		}
		providers = append(providers, p)
		logger.Info("job provider initialized", "provider", pc.Name)
	}
	return providers, nil
}

func newProvider(pc domain.ProviderConfig, doer httpx.Doer) (job.Provider, error) {
	switch pc.Name {
	case domain.ProviderAdzuna:
		client, err := adzuna.NewClient(adzuna.Config{
			AppID:      pc.AppID,
			AppKey:     pc.APIKey,
			Country:    pc.Country,
			BaseURL:    pc.BaseURL,
			HTTPClient: doer,
		})
		if err != nil {
			return nil, err
		}
		return adzunaProvider.NewProvider(client, nil)
	case domain.ProviderJSearch:
		client, err := jsearch.NewClient(jsearch.Config{
			APIKey:     pc.APIKey,
			Host:       pc.Host,
			BaseURL:    pc.BaseURL,
			HTTPClient: doer,
		})
		if err != nil {
			return nil, err
		}
		return jsearchProvider.NewProvider(client, nil)
	case domain.ProviderReed:
		client, err := reed.NewClient(reed.Config{
			APIKey:     pc.APIKey,
			BaseURL:    pc.BaseURL,
			HTTPClient: doer,
		})
		if err != nil {
			return nil, err
		}
		return reedProvider.NewProvider(client, nil)
	default:
		return nil, fmt.Errorf("unknown provider %q", pc.Name)
	}
}

// provideArchive connects to Neo4j when NEO4J_URI is set. The archive is nil otherwise.
func provideArchive(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.Archive, func(), error) {
	if cfg.Neo4j.URI == "" {
		logger.Info("Neo4j not configured, job archive disabled")
		return nil, func() {}, nil
	}

	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)

	cleanup := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("failed to close Neo4j client", "err", err)
		}
	}
	return storage.NewJobArchive(client), cleanup, nil
}

// provideJobService assembles the search orchestrator
func provideJobService(
	cfg config.Config,
	providers []job.Provider,
	archive job.Archive,
	recorder *metrics.Search,
	logger *logging.Logger,
) (*job.Service, error) {
	opts := []job.Option{
		job.WithProviders(providers...),
		job.WithProviderConfigs(cfg.Providers),
		job.WithFallback(demo.NewProvider(nil)),
		job.WithRecorder(recorder),
		job.WithLogger(logger),
		job.WithTimeout(cfg.Search.Timeout),
		job.WithCircuitBreaker(cfg.Search.CircuitBreaker),
	}
	if archive != nil {
		opts = append(opts, job.WithArchive(archive))
	}

	svc, err := job.NewService(opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("search service ready", "active_provider", svc.ActiveProvider())
	return svc, nil
}

// provideStore opens the key/value store selected by STORAGE_DRIVER
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (kv.Store, func(), error) {
	store, err := kv.Open(ctx, kv.Config{
		Driver:      cfg.Storage.Driver,
		SQLitePath:  cfg.Storage.SQLitePath,
		RedisURL:    cfg.Storage.RedisURL,
		RedisPrefix: cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("tracker storage opened", "driver", cfg.Storage.Driver)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close tracker storage", "err", err)
		}
	}
	return store, cleanup, nil
}

// provideTracker loads favorites, applications and the résumé from store
func provideTracker(ctx context.Context, store kv.Store, logger *logging.Logger) (*tracker.Service, error) {
	return tracker.NewService(ctx, store, tracker.WithLogger(logger))
}

// provideExporter builds the Google Sheets client when credentials are configured
func provideExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) (tracker.Exporter, error) {
	if cfg.Sheets.CredentialsPath == "" {
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized")
	return client, nil
}

// provideSheetDefaults extracts the export destination from config
func provideSheetDefaults(cfg config.Config) tools.SheetDefaults {
	return tools.SheetDefaults{
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Tab:           cfg.Sheets.Tab,
	}
}

// newResources creates Resources struct
func newResources(
	jobs *job.Service,
	trk *tracker.Service,
	exporter tracker.Exporter,
	sheet tools.SheetDefaults,
	reg *prometheus.Registry,
) *Resources {
	return &Resources{
		Jobs:     jobs,
		Tracker:  trk,
		Exporter: exporter,
		Sheet:    sheet,
		Metrics:  reg,
	}
}
