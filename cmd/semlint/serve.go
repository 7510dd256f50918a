package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/c360studio/semlint/lint"
	"github.com/c360studio/semlint/serve"
	"github.com/spf13/cobra"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		listen  string
		publish bool
		natsURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a continuous checking service",
		Long: `Serve keeps checking the repository in the background: a full run at
startup, incremental re-checks as files change, Prometheus metrics and
a health endpoint over HTTP, and optional report publishing to NATS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if listen != "" {
				cfg.Serve.Listen = listen
			}
			if publish {
				cfg.Serve.Publish = true
			}
			if natsURL != "" {
				cfg.Serve.NATSURL = natsURL
			}

			printBanner()

			runner := lint.NewRunner(lint.RunnerConfig{Config: cfg, Version: Version})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			project := filepath.Base(runner.Root())
			publisher, err := serve.NewPublisher(ctx, cfg.Serve, project, slog.Default())
			if err != nil {
				return fmt.Errorf("connect publisher: %w", err)
			}

			svc := serve.New(serve.Config{
				Runner:    runner,
				Publisher: publisher,
				Listen:    cfg.Serve.Listen,
				Debounce:  cfg.Serve.Debounce,
				Logger:    slog.Default(),
			})

			slog.Info("Semlint service ready",
				"version", Version,
				"root", runner.Root(),
				"listen", cfg.Serve.Listen,
				"publish", cfg.Serve.Publish)

			if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			slog.Info("Semlint shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address for metrics and health")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish reports to NATS")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")

	return cmd
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             Semlint v" + Version + "                     ║")
	fmt.Println("║      Clean Code Checking Service              ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}
