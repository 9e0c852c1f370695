package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/export"
	pkgconfig "github.com/talyaglobal/v0-tsmartwarehouse-sub004/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if d := cmd.String("store"); d != "" {
		cfg.Store.Driver = d
		if err := cfg.Store.Validate(); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
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

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, version, internal.WithConfig(cfg))
}

func tui(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunTUI(ctx, cmd.String("plan"), internal.WithConfig(cfg))
}

func exportPlan(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Export(ctx, internal.ExportRequest{
		PlanID: cmd.String("plan"),
		Format: cmd.String("format"),
		Output: cmd.String("output"),
		Width:  int(cmd.Int("width")),
		Height: int(cmd.Int("height")),
	}, internal.WithConfig(cfg))
}

func main() {
	planFlag := &cli.StringFlag{
		Name:     "plan",
		Aliases:  []string{"p"},
		Usage:    "Plan id",
		Required: true,
	}

	cmd := &cli.Command{
		Name:    "warehouse-layout",
		Usage:   "Warehouse floor-plan layout editor: REST API, MCP tools, terminal editor and exports",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "Override store.driver (file, sqlite, postgres, memory)",
				Sources: cli.EnvVars("APP_STORE_DRIVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve editor tools over MCP stdio",
				Action: mcp,
			},
			{
				Name:   "tui",
				Usage:  "Edit a plan in the terminal",
				Action: tui,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "plan",
						Aliases: []string{"p"},
						Usage:   "Plan id",
						Value:   "default",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Render a saved plan to a file",
				Action: exportPlan,
				Flags: []cli.Flag{
					planFlag,
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("One of %v", export.Names()),
						Value:   "svg",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, - for stdout",
						Value:   "-",
					},
					&cli.IntFlag{
						Name:  "width",
						Usage: "Canvas width for 2D formats",
						Value: export.DefaultWidth,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "Canvas height for 2D formats",
						Value: export.DefaultHeight,
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
