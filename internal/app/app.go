// Package app wires the adapter's components together: configuration,
// API client, key-validation cache, ingestion poller, metrics, and the
// MCP gateway.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/gateway"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/ingest"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/keycache"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/ragapi"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/telemetry"
)

type App struct {
	cfg      domain.Config
	logger   *zap.Logger
	gateway  *gateway.Gateway
	registry *prometheus.Registry
}

func New(cfg domain.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("app")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewPrometheusMetrics(registry)

	client := ragapi.NewClient(ragapi.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	})
	keys := keycache.New(keycache.Options{
		Validator: client,
		TTL:       cfg.KeyCacheTTL(),
		Logger:    logger,
		Metrics:   metrics,
	})
	jobs := ingest.New(ingest.Options{
		Reader:   client,
		Interval: cfg.PollInterval(),
		MaxWait:  cfg.MaxWait(),
		Logger:   logger,
		Metrics:  metrics,
	})

	gw, err := gateway.NewGateway(gateway.Options{
		Config:  cfg,
		Client:  client,
		Keys:    keys,
		Jobs:    jobs,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		gateway:  gw,
		registry: registry,
	}, nil
}

// Run serves MCP tool calls until the context is canceled or the host
// disconnects. The observability listener, when configured, lives for the
// same span.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("adapter starting",
		zap.String("endpoint", a.cfg.APIBase),
		zap.String("api_key", a.cfg.TruncatedKey()),
		zap.Float64("score_threshold", a.cfg.ScoreThreshold),
		zap.Duration("max_wait", a.cfg.MaxWait()),
	)

	if a.cfg.MetricsListenAddr != "" {
		go func() {
			err := telemetry.StartHTTPServer(runCtx, telemetry.HTTPServerOptions{
				Addr:     a.cfg.MetricsListenAddr,
				Registry: a.registry,
			}, a.logger)
			if err != nil {
				a.logger.Error("observability server failed", zap.Error(err))
			}
		}()
	}

	return a.gateway.Run(runCtx)
}
