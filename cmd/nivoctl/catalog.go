package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/nivosearch/internal/db/sqldb"
	catalogrepo "github.com/kailas-cloud/nivosearch/internal/repository/catalog"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Development catalog tools",
		Subcommands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create a SQLite catalog and load fixtures into it",
				Action: catalogInitCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the SQLite database file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Table prefix",
						Value: "wp_",
					},
					&cli.StringFlag{
						Name:    "fixtures",
						Aliases: []string{"f"},
						Usage:   "YAML fixtures file with products and terms",
					},
				},
			},
		},
	}
}

func catalogInitCommand(c *cli.Context) error {
	ctx := c.Context
	prefix := c.String("prefix")

	conn, err := sqldb.Open(ctx, sqldb.Config{Driver: sqldb.DriverSQLite, DSN: c.String("db")})
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := catalogrepo.CreateSchema(ctx, conn, prefix); err != nil {
		return err
	}
	slog.Info("schema ready", "db", c.String("db"), "prefix", prefix)

	path := c.String("fixtures")
	if path == "" {
		return nil
	}
	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()

	fx, err := catalogrepo.LoadFixtures(f)
	if err != nil {
		return err
	}
	if err := catalogrepo.Seed(ctx, conn, prefix, fx); err != nil {
		return err
	}
	slog.Info("fixtures loaded", "products", len(fx.Products), "terms", len(fx.Terms))
	_, err = fmt.Fprintf(c.App.Writer, "seeded %d products and %d terms\n", len(fx.Products), len(fx.Terms))
	return err
}
