// Package emit renders a transformation result as source text: the
// generated aliases, the derive attribute and the rewritten declaration,
// in that order.
package emit

import (
	"bytes"
	"fmt"
	"text/template"

	"macro-derive/internal/derive"
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
	"macro-derive/internal/transform"
)

// templateData holds everything the output template needs.
type templateData struct {
	Aliases     []aliasData
	Derive      string
	Declaration string
}

// aliasData is one rendered alias item.
type aliasData struct {
	Hidden bool
	Name   string
	Params string
	Target string
}

var itemsTemplate = template.Must(template.New("items").Parse(
	`{{range .Aliases}}{{if .Hidden}}#[doc(hidden)]
{{end}}type {{.Name}}{{.Params}} = {{.Target}};
{{end}}{{with .Derive}}{{.}}
{{end}}{{.Declaration}}
`))

func buildTemplateData(res *transform.Result) *templateData {
	data := &templateData{
		Derive:      derive.Attribute(res.Derive),
		Declaration: syntax.FormatDeclaration(res.Decl),
	}

	for _, a := range res.Aliases {
		data.Aliases = append(data.Aliases, aliasData{
			Hidden: a.Hidden,
			Name:   a.Name,
			Params: syntax.FormatGenericParams(a.Params),
			Target: syntax.FormatType(a.Macro),
		})
	}

	return data
}

// Render returns the source text for res.
func Render(res *transform.Result) (string, error) {
	var buf bytes.Buffer

	if err := itemsTemplate.Execute(&buf, buildTemplateData(res)); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", res.Decl.Name, err)
	}

	return buf.String(), nil
}

// Tokens returns res as a single token stream.
func Tokens(res *transform.Result) (token.Stream, error) {
	src, err := Render(res)
	if err != nil {
		return nil, err
	}

	s, err := token.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("failed to re-lex output of %s: %w", res.Decl.Name, err)
	}

	return s, nil
}
