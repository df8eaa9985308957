package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/halvdan/mimir/internal"
	"github.com/halvdan/mimir/internal/prepare"
	pkgconfig "github.com/halvdan/mimir/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if transport := cmd.String("transport"); transport != "" {
		cfg.MCP.Transport = transport
		if err := cfg.MCP.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runPrepare(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	stats, err := prepare.Run(ctx, prepare.Options{
		Source: cmd.String("source"),
		Output: cfg.Docs.Output(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logger.Info("documentation prepared",
		slog.Int("copied", stats.Copied),
		slog.Int("skipped", stats.Skipped),
		slog.Int("removed", stats.Removed),
		slog.Int("snippets", stats.Snippets))
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "mimir",
		Usage:  "Documentation server exposing a staged markdown tree over MCP and REST with keyword search",
		Action: runServe,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Usage:   "MCP transport override (stdio or http)",
				Sources: cli.EnvVars("APP_MCP_TRANSPORT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "prepare",
				Usage:  "Stage a documentation checkout into the served layout",
				Action: runPrepare,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Path to the documentation checkout",
						Required: true,
						Sources:  cli.EnvVars("APP_DOCS_SOURCE"),
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
