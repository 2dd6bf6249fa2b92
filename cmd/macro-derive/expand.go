package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"macro-derive/internal/config"
	"macro-derive/internal/expand"
	"macro-derive/internal/watch"
)

type ExpandCmd struct {
	Files       []string `arg:"" type:"existingfile" help:"Source files to expand."`
	Out         string   `help:"Write expanded files into DIR." short:"o" type:"path" placeholder:"DIR" xor:"dest"`
	InPlace     bool     `help:"Overwrite the input files." xor:"dest"`
	StableNames bool     `help:"Name aliases PREFIX1, PREFIX2, ... instead of randomly."`
	Watch       bool     `help:"Re-expand files when they change." short:"w"`
}

func (c *ExpandCmd) Run(g *Globals) error {
	if c.Watch && c.InPlace {
		// our own writes would trigger another round
		return errors.New("--watch cannot be combined with --in-place")
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}

	logger := g.logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.expandAll(ctx, g, cfg, logger, c.Files); err != nil {
		return err
	}

	if !c.Watch {
		return nil
	}

	w, err := watch.New(c.Files, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching for changes", slog.Int("files", len(c.Files)))

	return w.Run(ctx, func(path string) error {
		return c.expandAll(ctx, g, cfg, logger, []string{path})
	})
}

// expandAll expands files concurrently, then writes the results in
// argument order. Nothing is written when any file fails.
func (c *ExpandCmd) expandAll(ctx context.Context, g *Globals, cfg *config.Config, logger *slog.Logger, files []string) error {
	outputs := make([]*expand.Output, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			out, err := newExpander(cfg, c.StableNames, logger.With(slog.String("file", path))).Expand(src)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	return c.write(g, logger, files, outputs)
}

func (c *ExpandCmd) write(g *Globals, logger *slog.Logger, files []string, outputs []*expand.Output) error {
	switch {
	case c.InPlace:
		for i, path := range files {
			if len(outputs[i].Items) == 0 {
				continue
			}
			if err := expand.WriteInPlace(path, outputs[i].Source); err != nil {
				return err
			}
			logger.Info("expanded", slog.String("file", path), slog.Int("items", len(outputs[i].Items)))
		}

	case c.Out != "":
		out := make([]expand.File, len(files))
		for i, path := range files {
			out[i] = expand.File{Filename: filepath.Base(path), Content: outputs[i].Source}
		}
		if err := expand.WriteFiles(out, c.Out); err != nil {
			return err
		}
		logger.Info("expanded", slog.Int("files", len(files)), slog.String("out", c.Out))

	default:
		for _, o := range outputs {
			if _, err := g.Stdout.Write(o.Source); err != nil {
				return err
			}
		}
	}

	return nil
}
