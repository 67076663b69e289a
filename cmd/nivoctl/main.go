package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/nivosearch/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "nivoctl",
		Usage:   "Manage nivosearch settings and development catalogs",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a server config file (defaults to config/<ENV>.yaml)",
				EnvVars: []string{"NIVOSEARCH_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			catalogCommand(),
			presetCommand(),
			optionsCommand(),
			searchCommand(),
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version.String())
					return err
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", c.String("log-level"))
	}

	handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
