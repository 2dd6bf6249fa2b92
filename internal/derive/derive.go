// Package derive parses the trait list given to the attribute and renders
// the derive attribute placed on the transformed declaration.
//
// The list is comma separated. Commas nested inside groups never split a
// candidate, empty candidates are skipped, and candidates that are not a
// path are dropped with a warning so that the rest of the list still
// applies.
package derive

import (
	"fmt"
	"strings"

	"macro-derive/internal/diagnostic"
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
)

// ParseTraits splits args into trait paths.
func ParseTraits(args token.Stream) ([]syntax.Path, diagnostic.Diagnostics) {
	var (
		traits []syntax.Path
		diags  diagnostic.Diagnostics
		seen   bool
	)

	for _, candidate := range args.Split(",") {
		if len(candidate) == 0 {
			continue
		}
		seen = true

		path, err := syntax.ParsePath(candidate)
		if err != nil {
			diags.AddWarning(diagnostic.CodeTraitDropped,
				fmt.Sprintf("trait %q dropped from derive list: %v", candidate.String(), err), "", "")

			continue
		}

		traits = append(traits, path)
	}

	if seen && len(traits) == 0 {
		diags.AddWarning(diagnostic.CodeTraitEmpty, "no usable trait names, derive attribute omitted", "", "")
	}

	return traits, diags
}

// ParseTraitList lexes src and parses it with ParseTraits.
func ParseTraitList(src string) ([]syntax.Path, diagnostic.Diagnostics, error) {
	args, err := token.Lex(src)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("failed to lex trait list: %w", err)
	}

	traits, diags := ParseTraits(args)

	return traits, diags, nil
}

// Strict promotes dropped-trait warnings to errors.
func Strict(d diagnostic.Diagnostics) diagnostic.Diagnostics {
	out := diagnostic.Diagnostics{Errors: d.Errors, Infos: d.Infos}

	for _, w := range d.Warnings {
		if w.Code == diagnostic.CodeTraitDropped {
			w.Severity = diagnostic.Error
			out.Errors = append(out.Errors, w)

			continue
		}
		out.Warnings = append(out.Warnings, w)
	}

	return out
}

// Attribute renders #[derive(...)] for traits, or "" when there are none.
func Attribute(traits []syntax.Path) string {
	if len(traits) == 0 {
		return ""
	}

	names := make([]string, len(traits))
	for i, t := range traits {
		names[i] = syntax.FormatPath(t)
	}

	return "#[derive(" + strings.Join(names, ", ") + ")]"
}
