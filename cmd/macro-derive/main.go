// Package main provides the CLI entrypoint for macro-derive.
//
// macro-derive rewrites Rust declarations annotated with #[macro_derive(...)]
// so that derive macros never see a macro invocation in type position:
//   - each distinct invocation becomes a generated type alias
//   - the alias takes only the generic parameters the invocation mentions
//   - the declaration refers to the aliases and carries #[derive(...)]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"macro-derive/internal/alias"
	"macro-derive/internal/config"
	"macro-derive/internal/expand"
	"macro-derive/internal/transform"
)

type CLI struct {
	Globals

	Expand  ExpandCmd  `cmd:"" help:"Expand annotated items in source files."`
	Inspect InspectCmd `cmd:"" help:"Print a JSON report of the aliases each annotated item needs."`
	Init    InitCmd    `cmd:"" help:"Write a default configuration file."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// Globals are flags shared by every command.
type Globals struct {
	Verbose bool   `help:"Enable debug logging." short:"v"`
	Config  string `help:"Configuration file (default ./macro-derive.yaml when present)." type:"path" placeholder:"FILE"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (g *Globals) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
}

// load reads the configuration and checks it accepts this tool version.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if err := cfg.CheckCompatible(currentVersion().Semver()); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newExpander builds an Expander for one file. Stable names restart at 1 in
// every file so output does not depend on processing order.
func newExpander(cfg *config.Config, stableNames bool, logger *slog.Logger) *expand.Expander {
	var namer alias.Namer = alias.NewRandomNamer(cfg.Alias.Prefix, cfg.Alias.SuffixLength)
	if stableNames {
		namer = alias.NewSequenceNamer(cfg.Alias.Prefix)
	}

	return expand.New(expand.Config{
		Attribute: cfg.Attribute,
		Transform: transform.Config{
			Namer:        namer,
			Hidden:       cfg.Alias.IsHidden(),
			StrictTraits: cfg.Traits.Strict,
			Logger:       logger,
		},
	})
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.Stdout, currentVersion())
	return nil
}

type InitCmd struct {
	Path  string `arg:"" optional:"" help:"Where to write the file." default:"macro-derive.yaml" type:"path"`
	Force bool   `help:"Overwrite an existing file." short:"f"`
}

func (c *InitCmd) Run(g *Globals) error {
	if !c.Force {
		if _, err := os.Stat(c.Path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", c.Path)
		}
	}

	if err := config.WriteFile(config.Default(), c.Path); err != nil {
		return err
	}

	fmt.Fprintf(g.Stderr, "wrote %s\n", c.Path)

	return nil
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("macro-derive"),
		kong.Description("Move macro invocations out of derive-annotated Rust declarations."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)
}

func main() {
	cli := &CLI{Globals: Globals{Stdout: os.Stdout, Stderr: os.Stderr}}

	parser, err := newParser(cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
