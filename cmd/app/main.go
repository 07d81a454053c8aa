package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/almanac/internal"
	pkgconfig "github.com/starford/almanac/pkg/config"
)

const defaultConfigFile = "config/config.yaml"

// loadConfig reads --config, falling back to the bundled file. Without an
// explicit --config and no file on disk the built-in defaults are used.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	err := pkgconfig.LoadWithDefaults(cmd.String("config"), defaultConfigFile, cfg)
	if errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "almanac",
		Usage:  "Normalize and index partial historical dates kept in Markdown records",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (.yaml or .toml)",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and catalog watcher",
				Action: serve,
			},
			normalizeCommand(),
			{
				Name:   "mcp",
				Usage:  "Serve MCP date tools over stdio",
				Action: runMCP,
			},
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
