// Package report describes expansion results as JSON for the inspect
// command.
package report

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"macro-derive/internal/diagnostic"
	"macro-derive/internal/expand"
	"macro-derive/internal/syntax"
)

// Report lists the annotated items of one file.
type Report struct {
	File  string `json:"file,omitempty"`
	Items []Item `json:"items"`
}

// Item is one transformed declaration.
type Item struct {
	Name        string                  `json:"name"`
	Line        int                     `json:"line"`
	Derive      []string                `json:"derive"`
	Aliases     []Alias                 `json:"aliases"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
	Output      string                  `json:"output"`
}

// Alias is one generated alias.
type Alias struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Target string   `json:"target"`
	UsedBy []string `json:"used_by"`
}

// Build assembles a report from expanded items.
func Build(file string, items []expand.ItemResult) *Report {
	r := &Report{File: file, Items: make([]Item, 0, len(items))}

	for _, it := range items {
		res := it.Result

		item := Item{
			Name:        it.Name,
			Line:        it.Line,
			Derive:      make([]string, 0, len(res.Derive)),
			Aliases:     make([]Alias, 0, len(res.Aliases)),
			Diagnostics: res.Diagnostics.All(),
			Output:      it.Text,
		}

		for _, p := range res.Derive {
			item.Derive = append(item.Derive, syntax.FormatPath(p))
		}

		for _, a := range res.Aliases {
			params := make([]string, 0, len(a.Params))
			for _, p := range a.Params {
				params = append(params, syntax.FormatGenericParam(p))
			}

			item.Aliases = append(item.Aliases, Alias{
				Name:   a.Name,
				Params: params,
				Target: syntax.FormatType(a.Macro),
				UsedBy: a.UsedBy,
			})
		}

		r.Items = append(r.Items, item)
	}

	return r
}

// Marshal encodes r as indented JSON followed by a newline.
func Marshal(r *Report) ([]byte, error) {
	data, err := json.Marshal(r, jsontext.WithIndent("  "), json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	return append(data, '\n'), nil
}
