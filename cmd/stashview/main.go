package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"stashview/internal"
	"stashview/internal/query"
	"stashview/internal/report"
	pkgconfig "stashview/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func buildFilter(cmd *cli.Command) query.Filter {
	return query.Filter{
		Query:     strings.Join(cmd.Args().Slice(), " "),
		Owner:     cmd.String("owner"),
		Item:      cmd.String("item"),
		Upgrade:   cmd.String("upgrade"),
		CType:     cmd.String("ctype"),
		NBT:       cmd.String("nbt"),
		NoDungeon: cmd.Bool("nodungeon"),
	}
}

func newLogger(cfg *internal.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// renderAction decodes the save file, applies the filter, and writes one
// PNG per matching record.
func renderAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}

	res, err := svc.Scan(cmd.String("file"), cmd.String("mode"))
	if err != nil {
		return err
	}
	res = res.Filter(buildFilter(cmd))
	if res.Len() == 0 {
		fmt.Println("no matching records")
		return nil
	}

	outDir := cmd.String("out")
	if outDir == "" {
		outDir = cfg.Render.OutputDir
	}
	paths, err := svc.RenderAll(res, outDir)
	if err != nil {
		return err
	}
	fmt.Printf("rendered %d of %d matching records to %s\n", len(paths), res.Len(), outDir)
	return nil
}

// searchAction decodes the save file, applies the filter, and prints the
// matches as a table.
func searchAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return err
	}

	res, err := svc.Scan(cmd.String("file"), cmd.String("mode"))
	if err != nil {
		return err
	}
	res = res.Filter(buildFilter(cmd))
	if res.Len() == 0 {
		fmt.Println("no matching records")
		return nil
	}

	loc, err := cfg.Render.Location()
	if err != nil {
		return err
	}
	fmt.Print(report.Render(res, loc))
	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file",
		Value:   "config/config.yaml",
		Sources: cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "Save file to decode (.dat/.nbt for backpacks, .json for containers)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Force the save file mode: backpack or container (default: detect from extension)",
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "Match backpacks whose owner name or UUID contains this (case-insensitive)",
		},
		&cli.StringFlag{
			Name:  "item",
			Usage: "Match records holding an item whose id contains this (case-insensitive)",
		},
		&cli.StringFlag{
			Name:  "upgrade",
			Usage: "Match backpacks with an upgrade whose id contains this (case-insensitive)",
		},
		&cli.StringFlag{
			Name:  "ctype",
			Usage: "Match containers whose type contains this (case-insensitive)",
		},
		&cli.StringFlag{
			Name:  "nbt",
			Usage: "Match records whose NBT text contains this (case-sensitive)",
		},
		&cli.BoolFlag{
			Name:  "nodungeon",
			Usage: "Drop dungeon-flagged containers",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "stashview",
		Usage:     "Query and render backpack and container contents from game save files",
		ArgsUsage: "[query terms]",
		Action:    renderAction,
		Flags: append(filterFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for rendered images (default from config)",
			},
		),
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Print matching records as a table instead of rendering images",
				ArgsUsage: "[query terms]",
				Action:    searchAction,
				Flags:     filterFlags(),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with SQLite index, file watcher, and SSE updates",
				Action: serveAction,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "mcp",
				Usage:  "Serve stash query tools over the Model Context Protocol on stdio",
				Action: mcpAction,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
