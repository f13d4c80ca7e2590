package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-request-client/internal/app"
	"github.com/samvad-hq/samvad-request-client/internal/cli"
	"github.com/samvad-hq/samvad-request-client/internal/config"
	"github.com/samvad-hq/samvad-request-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, cli.ErrRequestFailed) {
			fmt.Fprintf(os.Stderr, "reqctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("reqctl starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(func(cmd *cobra.Command) (*app.Runner, error) {
		runner, err := app.NewRunner(cmd.Context(), cfg, log)
		if err != nil {
			logger.ErrorObj("failed to initialize runner", "error", err.Error())
			return nil, err
		}
		return runner, nil
	})
	return root.ExecuteContext(ctx)
}
