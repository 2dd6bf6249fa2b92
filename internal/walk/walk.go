// Package walk traverses type-expression trees.
//
// Two passes share one traversal order:
//   - Find visits macro invocations top-down, left-to-right, keeping the
//     first occurrence of each structurally distinct invocation
//   - Rewrite rebuilds a tree with invocations replaced per a substitution map
//
// Path segments are visited outermost first, each segment's type arguments
// left-to-right; arrays, slices, pointers and references descend into their
// element; tuples visit elements in order. Macro invocations and opaque
// shapes are terminals.
package walk

import (
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
)

// Find returns the distinct macro invocations in root in first-seen order.
func Find(root syntax.Type) []*syntax.MacroType {
	c := NewCollector()
	c.Add(root)

	return c.Macros()
}

// Contains reports whether root holds any macro invocation.
func Contains(root syntax.Type) bool {
	found := false
	visit(root, func(*syntax.MacroType) { found = true }, nil)

	return found
}

// Opaque returns the opaque nodes reachable by the traversal. Their tokens
// are never searched for macro invocations.
func Opaque(root syntax.Type) []*syntax.OtherType {
	var out []*syntax.OtherType
	visit(root, nil, func(o *syntax.OtherType) { out = append(out, o) })

	return out
}

// Collector accumulates distinct macro invocations across several roots,
// such as every field of a declaration.
type Collector struct {
	seen   map[string]struct{}
	macros []*syntax.MacroType
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Add visits root and returns the distinct invocations found in it, in
// first-seen order, including ones already collected from earlier roots.
func (c *Collector) Add(root syntax.Type) []*syntax.MacroType {
	var (
		local     []*syntax.MacroType
		localSeen = make(map[string]struct{})
	)

	visit(root, func(m *syntax.MacroType) {
		key := m.Key()

		if _, ok := localSeen[key]; !ok {
			localSeen[key] = struct{}{}
			local = append(local, m)
		}

		if _, ok := c.seen[key]; !ok {
			c.seen[key] = struct{}{}
			c.macros = append(c.macros, m)
		}
	}, nil)

	return local
}

// Macros returns every distinct invocation collected so far.
func (c *Collector) Macros() []*syntax.MacroType {
	return c.macros
}

func visit(t syntax.Type, onMacro func(*syntax.MacroType), onOpaque func(*syntax.OtherType)) {
	switch t := t.(type) {
	case *syntax.PathType:
		for _, seg := range t.Path.Segments {
			for _, arg := range seg.Args {
				if arg.Kind == syntax.ArgType || arg.Kind == syntax.ArgBinding {
					visit(arg.Type, onMacro, onOpaque)
				}
			}
		}

	case *syntax.ArrayType:
		visit(t.Elem, onMacro, onOpaque)

	case *syntax.SliceType:
		visit(t.Elem, onMacro, onOpaque)

	case *syntax.PtrType:
		visit(t.Elem, onMacro, onOpaque)

	case *syntax.RefType:
		visit(t.Elem, onMacro, onOpaque)

	case *syntax.TupleType:
		for _, e := range t.Elems {
			visit(e, onMacro, onOpaque)
		}

	case *syntax.MacroType:
		if onMacro != nil {
			onMacro(t)
		}

	case *syntax.OtherType:
		if onOpaque != nil {
			onOpaque(t)
		}
	}
}

// MacroCalls returns the names of macro-shaped calls (name ! group) found
// anywhere in a raw token stream, nested groups included.
func MacroCalls(s token.Stream) []string {
	var names []string

	for i, t := range s {
		if t.Kind == token.Group {
			names = append(names, MacroCalls(t.Stream)...)
			continue
		}

		if t.Kind == token.Ident && i+2 < len(s) && s[i+1].IsPunct("!") && s[i+2].Kind == token.Group {
			names = append(names, t.Text)
		}
	}

	return names
}
