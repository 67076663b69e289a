package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/nivosearch/pkg/searchbox"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a live search against a server and print the rendered results",
		ArgsUsage: "<query>",
		Action:    searchAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Server base URL",
				Value:   "http://localhost:8080",
			},
			&cli.Int64Flag{
				Name:    "preset",
				Aliases: []string{"p"},
				Usage:   "Preset id",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Per-request override as key=value, repeatable",
			},
			&cli.IntFlag{
				Name:  "min-chars",
				Usage: "Minimum query length before searching",
				Value: searchbox.DefaultMinChars,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall request timeout",
				Value: 10 * time.Second,
			},
		},
	}
}

func parseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid override %q, want key=value", p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func searchAction(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("query is required")
	}

	data, err := parseOverrides(c.StringSlice("set"))
	if err != nil {
		return err
	}
	data["min_chars"] = c.Int("min-chars")
	data["delay"] = 0

	cfg := searchbox.ConfigFromPreset(c.Int64("preset"), data)
	if utf8.RuneCountInString(query) < cfg.MinChars {
		return fmt.Errorf("query must be at least %d characters", cfg.MinChars)
	}

	client, err := searchbox.NewClient(c.String("url"), searchbox.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	done := make(chan searchbox.Snapshot, 1)
	box := searchbox.NewBox(client, cfg, searchbox.OnChange(func(s searchbox.Snapshot) {
		if settled(s) {
			select {
			case done <- s:
			default:
			}
		}
	}))
	defer box.Close()

	box.Focus()
	box.Input(query)

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	var snap searchbox.Snapshot
	select {
	case snap = <-done:
	case <-ctx.Done():
		return fmt.Errorf("search timed out: %w", ctx.Err())
	}

	if snap.Err != nil {
		if snap.State == searchbox.StateErrored {
			_, _ = fmt.Fprintln(c.App.Writer, snap.Markup)
		}
		return snap.Err
	}
	if _, err := fmt.Fprintln(c.App.Writer, snap.Markup); err != nil {
		return err
	}
	if snap.Total >= 0 {
		slog.Info("search finished", "state", snap.State.String(), "total", snap.Total)
	}
	return nil
}

// settled reports whether a snapshot is the final answer to a request.
func settled(s searchbox.Snapshot) bool {
	switch s.State {
	case searchbox.StateRendered, searchbox.StateEmpty, searchbox.StateErrored:
		return true
	case searchbox.StateIdle:
		return s.Err != nil
	}
	return false
}
