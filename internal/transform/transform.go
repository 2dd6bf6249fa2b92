package transform

import (
	"fmt"
	"log/slog"

	"macro-derive/internal/alias"
	"macro-derive/internal/derive"
	"macro-derive/internal/diagnostic"
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
	"macro-derive/internal/walk"
)

// Config holds configuration for a Transformer.
type Config struct {
	// Namer produces alias names. Nil selects a RandomNamer with defaults.
	Namer alias.Namer
	// Hidden marks generated aliases as hidden from documentation.
	Hidden bool
	// StrictTraits turns dropped trait names into errors.
	StrictTraits bool
	// Logger receives debug output. Nil selects slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default transformer configuration.
func DefaultConfig() Config {
	return Config{
		Namer:  alias.NewRandomNamer(alias.DefaultPrefix, alias.DefaultSuffixLength),
		Hidden: true,
	}
}

// Transformer rewrites declarations.
type Transformer struct {
	config Config
	logger *slog.Logger
}

// New creates a Transformer with the given configuration.
func New(config Config) *Transformer {
	if config.Namer == nil {
		config.Namer = alias.NewRandomNamer(alias.DefaultPrefix, alias.DefaultSuffixLength)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Transformer{config: config, logger: logger}
}

// Alias is one generated type alias.
type Alias struct {
	// Name is the generated alias name.
	Name string
	// Params is the alias's own parameter list, defaults removed.
	Params []syntax.GenericParam
	// Macro is the invocation the alias stands for, unchanged.
	Macro *syntax.MacroType
	// UsedBy lists the field paths referencing the alias.
	UsedBy []string
	// Hidden marks the alias as hidden from documentation.
	Hidden bool
}

// Reference returns the type substituted for the invocation.
func (a Alias) Reference() syntax.Type {
	return alias.Reference(a.Name, a.Params)
}

// Result is the outcome of one transformation.
type Result struct {
	// Aliases in registration order.
	Aliases []Alias
	// Derive lists the traits to derive; empty means no derive attribute.
	Derive []syntax.Path
	// Decl is the rewritten declaration.
	Decl *syntax.Declaration
	// Diagnostics collected along the way.
	Diagnostics diagnostic.Diagnostics
}

// Transform rewrites decl and attaches traits. decl is not modified.
func (t *Transformer) Transform(decl *syntax.Declaration, traits []syntax.Path) *Result {
	out := decl.Clone()
	res := &Result{Derive: traits, Decl: out}

	registry := alias.NewRegistry(t.config.Namer)
	collector := walk.NewCollector()
	usedBy := make(map[string][]string)

	out.EachField(func(path *syntax.FieldPath, f *syntax.Field) {
		for _, m := range collector.Add(f.Type) {
			name := registry.Register(m)
			usedBy[name] = append(usedBy[name], path.String())
		}

		t.noteOpaque(&res.Diagnostics, decl.Name, path, f.Type)
	})

	subs := make(walk.Substitutions, registry.Len())

	for _, e := range registry.Entries() {
		a := Alias{
			Name:   e.Name,
			Params: alias.Minimize(e.Macro, decl.Generics),
			Macro:  e.Macro,
			UsedBy: usedBy[e.Name],
			Hidden: t.config.Hidden,
		}

		subs.Add(e.Macro, a.Reference())
		res.Aliases = append(res.Aliases, a)

		t.logger.Debug("alias registered",
			slog.String("item", decl.Name),
			slog.String("alias", a.Name),
			slog.String("macro", syntax.FormatType(a.Macro)),
			slog.Int("params", len(a.Params)),
		)
	}

	if len(subs) > 0 {
		out.EachField(func(_ *syntax.FieldPath, f *syntax.Field) {
			f.Type = walk.Rewrite(f.Type, subs)
		})
	}

	t.logger.Debug("declaration transformed",
		slog.String("item", decl.Name),
		slog.Int("aliases", len(res.Aliases)),
		slog.Int("traits", len(traits)),
	)

	return res
}

// TransformArgs parses the raw trait-list tokens and transforms decl.
// Trait-list diagnostics are merged into the result.
func (t *Transformer) TransformArgs(decl *syntax.Declaration, args token.Stream) *Result {
	traits, diags := derive.ParseTraits(args)
	if t.config.StrictTraits {
		diags = derive.Strict(diags)
	}

	res := t.Transform(decl, traits)
	res.Diagnostics.Merge(diags.WithItem(decl.Name))

	for _, w := range diags.Warnings {
		t.logger.Warn("trait list", slog.String("item", decl.Name), slog.String("diagnostic", w.String()))
	}

	return res
}

func (t *Transformer) noteOpaque(d *diagnostic.Diagnostics, item string, path *syntax.FieldPath, root syntax.Type) {
	for _, o := range walk.Opaque(root) {
		for _, name := range walk.MacroCalls(o.Tokens) {
			d.AddInfo(diagnostic.CodeMacroInOpaqueType,
				fmt.Sprintf("macro %s! inside %q is not aliased", name, o.Tokens.String()),
				item, path.String())
		}
	}
}
