package main

import (
	"fmt"
	"os"

	"macro-derive/internal/report"
)

type InspectCmd struct {
	File        string `arg:"" type:"existingfile" help:"Source file to inspect."`
	StableNames bool   `help:"Name aliases PREFIX1, PREFIX2, ... instead of randomly."`
}

func (c *InspectCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.File, err)
	}

	out, err := newExpander(cfg, c.StableNames, g.logger()).Expand(src)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	data, err := report.Marshal(report.Build(c.File, out.Items))
	if err != nil {
		return err
	}

	_, err = g.Stdout.Write(data)

	return err
}
