package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/app"
	"github.com/fengshao1227/woerk-rag-sub001/internal/buildinfo"
	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

func main() {
	logger := zap.NewNop()

	root := &cobra.Command{
		Use:     "ragmcp",
		Short:   "MCP stdio adapter for a remote RAG knowledge-base API",
		Version: buildinfo.Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Production config writes to stderr; stdout belongs to the
			// MCP stdio transport.
			cfg := zap.NewProductionConfig()
			log, err := cfg.Build()
			if err != nil {
				return err
			}
			logger = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				logger.Error("configuration invalid", zap.Error(err))
				return err
			}
			applyFlagOverrides(cmd.Flags(), &cfg)

			adapter, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			if err := adapter.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			return nil
		},
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.PersistentFlags().String("metrics-addr", "", "observability listen address for /metrics and /healthz (overrides RAG_METRICS_ADDR)")

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *domain.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "metrics-addr":
			cfg.MetricsListenAddr, _ = flags.GetString("metrics-addr")
		}
	})
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
