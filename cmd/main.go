package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	exitHealthy   = 0
	exitUnhealthy = 1
	exitFailure   = 2
)

// errUnhealthy is returned by the check command when the batch completed but
// at least one endpoint failed or was rejected.
var errUnhealthy = errors.New("one or more endpoints are unhealthy")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitHealthy
	case errors.Is(err, errUnhealthy):
		return exitUnhealthy
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "health-check",
		Short:         "Check that HTTP endpoints answer with their expected status code",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: config.yaml in ./config or .)")
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	root.AddCommand(newCheckCmd(&configPath, stdout, stderr))
	root.AddCommand(newServeCmd(&configPath, stderr))

	return root
}
