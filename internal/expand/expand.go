package expand

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"macro-derive/internal/diagnostic"
	"macro-derive/internal/emit"
	"macro-derive/internal/suggest"
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
	"macro-derive/internal/transform"
)

// DefaultAttribute marks items for expansion.
const DefaultAttribute = "macro_derive"

// Config holds configuration for an Expander.
type Config struct {
	// Attribute is the marker attribute name.
	Attribute string
	// Transform configures the per-item transformation.
	Transform transform.Config
}

// Expander expands annotated items in source files.
type Expander struct {
	attribute   string
	transformer *transform.Transformer
	logger      *slog.Logger
}

// New creates an Expander with the given configuration.
func New(config Config) *Expander {
	if config.Attribute == "" {
		config.Attribute = DefaultAttribute
	}

	logger := config.Transform.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Expander{
		attribute:   config.Attribute,
		transformer: transform.New(config.Transform),
		logger:      logger,
	}
}

// ItemResult is the expansion of one annotated item.
type ItemResult struct {
	// Name of the declaration.
	Name string
	// Line of the item's first attribute.
	Line int
	// Result of the transformation.
	Result *transform.Result
	// Text is the rendered replacement.
	Text string
}

// Output is an expanded file.
type Output struct {
	Source      []byte
	Items       []ItemResult
	Diagnostics diagnostic.Diagnostics
}

// item is an annotated item located in the token stream.
type item struct {
	tokens token.Stream // the item without the marker attribute
	args   token.Stream
	start  token.Pos
	end    int
}

// Expand rewrites every annotated item in src.
func (e *Expander) Expand(src []byte) (*Output, error) {
	stream, err := token.Lex(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize: %w", err)
	}

	out := &Output{}

	items, err := e.locate(stream, &out.Diagnostics)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	last := 0

	for _, it := range items {
		res, err := e.expandItem(it)
		if err != nil {
			return nil, err
		}

		indent := lineIndent(src, it.start.Offset)

		buf.Write(src[last:it.start.Offset])
		buf.WriteString(reindent(res.Text, indent))
		last = it.end

		out.Items = append(out.Items, *res)
		out.Diagnostics.Merge(res.Result.Diagnostics)
	}

	buf.Write(src[last:])
	out.Source = buf.Bytes()

	return out, nil
}

func (e *Expander) expandItem(it item) (*ItemResult, error) {
	decl, err := syntax.ParseDeclaration(it.tokens)
	if err != nil {
		return nil, fmt.Errorf("item at line %d: %w", it.start.Line, err)
	}

	res := e.transformer.TransformArgs(decl, it.args)
	if err := res.Diagnostics.Error(); err != nil {
		return nil, fmt.Errorf("item %s at line %d: %w", decl.Name, it.start.Line, err)
	}

	text, err := emit.Render(res)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("item expanded",
		slog.String("item", decl.Name),
		slog.Int("line", it.start.Line),
		slog.Int("aliases", len(res.Aliases)),
	)

	return &ItemResult{Name: decl.Name, Line: it.start.Line, Result: res, Text: text}, nil
}

// locate finds annotated items in s, descending into inline modules.
// Items whose attributes only resemble the marker are reported in diags.
func (e *Expander) locate(s token.Stream, diags *diagnostic.Diagnostics) ([]item, error) {
	var items []item

	for i := 0; i < len(s); {
		switch {
		case isAttr(s, i):
			start := i
			for isAttr(s, i) {
				i += 2
			}

			end := itemEnd(s, i)

			it, ok, err := e.annotated(s[start:end])
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, it)
				i = end
			} else {
				e.nearMiss(s[start:i], diags)
			}

			continue

		case s[i].IsIdent("mod") && i+2 < len(s) && s[i+1].Kind == token.Ident && s[i+2].IsGroup(token.Brace):
			nested, err := e.locate(s[i+2].Stream, diags)
			if err != nil {
				return nil, err
			}
			items = append(items, nested...)
			i += 3

			continue
		}

		i++
	}

	return items, nil
}

// annotated splits the marker attribute off an item. ok is false when the
// item does not carry the marker.
func (e *Expander) annotated(s token.Stream) (item, bool, error) {
	for i := 0; isAttr(s, i); i += 2 {
		name, rest, _ := syntax.AttrPath(s[i : i+2])
		if name != e.attribute {
			continue
		}

		var args token.Stream

		switch {
		case len(rest) == 0:
		case len(rest) == 1 && rest[0].IsGroup(token.Paren):
			args = rest[0].Stream
		default:
			return item{}, false, fmt.Errorf("line %d: malformed #[%s] attribute", s[i].Pos.Line, e.attribute)
		}

		tokens := make(token.Stream, 0, len(s)-2)
		tokens = append(tokens, s[:i]...)
		tokens = append(tokens, s[i+2:]...)

		return item{tokens: tokens, args: args, start: s[0].Pos, end: s[len(s)-1].End}, true, nil
	}

	return item{}, false, nil
}

// nearMiss warns about attributes in attrs spelled almost like the marker.
func (e *Expander) nearMiss(attrs token.Stream, diags *diagnostic.Diagnostics) {
	for i := 0; isAttr(attrs, i); i += 2 {
		name, _, ok := syntax.AttrPath(attrs[i : i+2])
		if !ok {
			continue
		}
		if _, near := suggest.Closest(name, []string{e.attribute}); !near {
			continue
		}

		line := attrs[i].Pos.Line
		diags.AddWarning(diagnostic.CodeAttributeMisspelled,
			fmt.Sprintf("line %d: #[%s] is not #[%s]; item left unchanged", line, name, e.attribute), "", "")
		e.logger.Warn("possibly misspelled attribute",
			slog.Int("line", line),
			slog.String("attribute", name),
			slog.String("expected", e.attribute),
		)
	}
}

func isAttr(s token.Stream, i int) bool {
	return i+1 < len(s) && s[i].IsPunct("#") && s[i+1].IsGroup(token.Bracket)
}

// itemEnd returns the index just past the item starting at i: its brace
// body or its terminating ';', whichever comes first outside angle brackets.
func itemEnd(s token.Stream, i int) int {
	depth := 0

	for ; i < len(s); i++ {
		t := s[i]

		switch {
		case t.IsPunct("<"):
			depth++
		case t.IsPunct(">") && depth > 0 && !(i > 0 && s[i-1].IsPunct("-") && s[i-1].Spacing == token.Joint):
			depth--
		case depth == 0 && (t.IsGroup(token.Brace) || t.IsPunct(";")):
			return i + 1
		}
	}

	return len(s)
}

// lineIndent returns the whitespace between the start of the line holding
// offset and offset itself, or "" when other text precedes it.
func lineIndent(src []byte, offset int) string {
	start := bytes.LastIndexByte(src[:offset], '\n') + 1

	prefix := string(src[start:offset])
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}

	return prefix
}

// reindent indents every line of text after the first and drops the final
// newline.
func reindent(text, indent string) string {
	text = strings.TrimSuffix(text, "\n")
	if indent == "" {
		return text
	}

	return strings.ReplaceAll(text, "\n", "\n"+indent)
}
