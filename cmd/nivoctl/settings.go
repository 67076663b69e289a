package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/nivosearch/internal/config"
	dbRedis "github.com/kailas-cloud/nivosearch/internal/db/redis"
	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
	settingsrepo "github.com/kailas-cloud/nivosearch/internal/repository/settings"
	settingsuc "github.com/kailas-cloud/nivosearch/internal/usecase/settings"
)

// presetFile is the on-disk form of a preset.
type presetFile struct {
	ID       int64                   `yaml:"id,omitempty"`
	Title    string                  `yaml:"title"`
	Status   string                  `yaml:"status,omitempty"`
	Sections map[string]domset.Layer `yaml:"sections"`
}

func presetCommand() *cli.Command {
	idFlag := &cli.Int64Flag{Name: "id", Usage: "Preset id"}
	return &cli.Command{
		Name:  "preset",
		Usage: "Manage search presets",
		Subcommands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Create a preset, or replace it when --id is set",
				ArgsUsage: "<file.yaml>",
				Action:    presetPutCommand,
				Flags:     []cli.Flag{idFlag},
			},
			{
				Name:   "get",
				Usage:  "Print a preset as YAML",
				Action: presetGetCommand,
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Usage: "Preset id", Required: true},
				},
			},
			{
				Name:   "list",
				Usage:  "List presets",
				Action: presetListCommand,
			},
		},
	}
}

func optionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "options",
		Usage: "Manage site-wide search options",
		Subcommands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Merge options from a YAML map into the stored options",
				ArgsUsage: "<file.yaml>",
				Action:    optionsPutCommand,
			},
			{
				Name:   "get",
				Usage:  "Print the stored options as YAML",
				Action: optionsGetCommand,
			},
		},
	}
}

// withSettings connects to the settings store named in the server config.
func withSettings(c *cli.Context, fn func(ctx context.Context, svc *settingsuc.Service) error) error {
	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.SettingsStore.Addrs,
		Username: cfg.SettingsStore.Username,
		Password: cfg.SettingsStore.Password,
		DB:       cfg.SettingsStore.DB,
	})
	if err != nil {
		return fmt.Errorf("connect settings store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()
	return fn(ctx, settingsuc.New(settingsrepo.New(store, cfg.SettingsStore.KeyPrefix)))
}

func readYAML(c *cli.Context, out any) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	var r io.Reader = c.App.Reader
	if path := c.Args().First(); path != "-" {
		f, err := os.Open(path) //nolint:gosec // operator supplied path
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func toPreset(f presetFile) domset.Preset {
	return domset.Preset{Title: f.Title, Status: f.Status, Sections: f.Sections}
}

func fromPreset(p domset.Preset) presetFile {
	return presetFile{ID: p.ID, Title: p.Title, Status: p.Status, Sections: p.Sections}
}

func presetPutCommand(c *cli.Context) error {
	var f presetFile
	if err := readYAML(c, &f); err != nil {
		return err
	}
	return withSettings(c, func(ctx context.Context, svc *settingsuc.Service) error {
		var (
			saved domset.Preset
			err   error
		)
		if id := c.Int64("id"); id > 0 {
			saved, err = svc.PutPreset(ctx, id, toPreset(f))
		} else {
			saved, err = svc.CreatePreset(ctx, toPreset(f))
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.App.Writer, "saved preset %d\n", saved.ID)
		return err
	})
}

func presetGetCommand(c *cli.Context) error {
	return withSettings(c, func(ctx context.Context, svc *settingsuc.Service) error {
		p, err := svc.Preset(ctx, c.Int64("id"))
		if err != nil {
			return err
		}
		return writeYAML(c.App.Writer, fromPreset(p))
	})
}

func presetListCommand(c *cli.Context) error {
	return withSettings(c, func(ctx context.Context, svc *settingsuc.Service) error {
		items, err := svc.ListPresets(ctx)
		if err != nil {
			return err
		}
		for _, p := range items {
			if _, err := fmt.Fprintf(c.App.Writer, "%d\t%s\n", p.ID, p.Title); err != nil {
				return err
			}
		}
		return nil
	})
}

func optionsPutCommand(c *cli.Context) error {
	var raw map[string]any
	if err := readYAML(c, &raw); err != nil {
		return err
	}
	return withSettings(c, func(ctx context.Context, svc *settingsuc.Service) error {
		saved, err := svc.PutOptions(ctx, domset.LayerFromValues(raw))
		if err != nil {
			return err
		}
		return writeYAML(c.App.Writer, saved)
	})
}

func optionsGetCommand(c *cli.Context) error {
	return withSettings(c, func(ctx context.Context, svc *settingsuc.Service) error {
		opts, err := svc.Options(ctx)
		if err != nil {
			return err
		}
		return writeYAML(c.App.Writer, opts)
	})
}
