package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/health-check/config"
	"github.com/angeloszaimis/health-check/internal/handler"
	"github.com/angeloszaimis/health-check/internal/healthcheck"
	"github.com/angeloszaimis/health-check/internal/httpserver"
	"github.com/angeloszaimis/health-check/internal/metrics"
	"github.com/angeloszaimis/health-check/pkg/logger"
)

const metricsBufferSize = 1000

func newServeCmd(configPath *string, stderr io.Writer) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health of the configured endpoints over HTTP",
		Long: `Start a status server. GET /health checks every configured endpoint and
answers 200 when all are healthy, 503 otherwise. GET /metrics returns the
aggregated outcomes of past checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if cmd.Flags().Changed("address") {
				cfg.Server.Address = address
			}

			log := logger.New(stderr, cfg.Logging.Level, true, cfg.Environment)

			descriptors, invalid := buildDescriptors(log, cfg.Endpoints, nil)
			if len(descriptors) == 0 {
				return errNoEndpoints
			}

			g, ctx := errgroup.WithContext(cmd.Context())

			collector := metrics.NewCollector(metricsBufferSize, log)
			collector.Start(ctx)

			evaluator := healthcheck.NewEvaluator(
				healthcheck.WithLogger(log),
				healthcheck.WithTimeout(cfg.Check.TimeoutDuration()),
				healthcheck.WithEvents(collector.EventChannel()),
			)

			statusHandler := handler.NewStatusHandler(log, evaluator, descriptors, invalid, cfg.Server.MinIntervalDuration())

			srv, err := httpserver.New(cfg.Server.Address, setupRouter(statusHandler, collector))
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			g.Go(func() error {
				log.Info("Status server listening",
					slog.String("address", srv.Addr()),
					slog.Int("endpoints", len(descriptors)))
				return srv.Run(ctx)
			})

			g.Go(func() error {
				<-ctx.Done()
				log.Info("Shutting down gracefully...")
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address, overrides server.address")

	return cmd
}
