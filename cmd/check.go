package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/health-check/config"
	"github.com/angeloszaimis/health-check/internal/healthcheck"
	"github.com/angeloszaimis/health-check/internal/report"
	"github.com/angeloszaimis/health-check/pkg/logger"
)

func newCheckCmd(configPath *string, stdout, stderr io.Writer) *cobra.Command {
	var (
		format  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check [[code=]url...]",
		Short: "Check every endpoint once and print the report",
		Long: `Check every configured endpoint, followed by the ones given as arguments,
with one GET request each. The expected status code defaults to 200; prefix
an argument with "code=" to expect another one, e.g. 204=https://example.com.

Exit status is 0 when every endpoint is healthy, 1 when at least one is
unhealthy or invalid and 2 on configuration errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logger.New(stderr, cfg.Logging.Level, false, cfg.Environment)

			if !cmd.Flags().Changed("format") {
				format = cfg.Check.Format
			}
			reportFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.Check.TimeoutDuration()
			}

			descriptors, invalid := buildDescriptors(log, cfg.Endpoints, args)
			if len(descriptors) == 0 && len(invalid) == 0 {
				return errNoEndpoints
			}

			evaluator := healthcheck.NewEvaluator(
				healthcheck.WithLogger(log),
				healthcheck.WithTimeout(timeout),
			)

			log.Info("Checking endpoints",
				slog.Int("endpoints", len(descriptors)),
				slog.Int("invalid", len(invalid)),
				slog.Duration("timeout", timeout))

			results := evaluator.EvaluateBatch(cmd.Context(), descriptors)
			rep := report.Build(results, invalid)

			if err := report.Write(stdout, rep, reportFormat); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if !rep.AllHealthy {
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "report format: text, json or yaml")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "per-request deadline, 0 keeps the transport default")

	return cmd
}
