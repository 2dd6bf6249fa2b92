package walk

import (
	"macro-derive/internal/syntax"
)

// Substitutions maps macro invocations, by structural key, to their
// replacements.
type Substitutions map[string]syntax.Type

// Add registers a replacement for m.
func (s Substitutions) Add(m *syntax.MacroType, replacement syntax.Type) {
	s[m.Key()] = replacement
}

// Rewrite returns a copy of root with every invocation present in subs
// replaced. Structural nodes are rebuilt; root is never modified.
// Invocations without a substitution and opaque nodes are kept as they are.
func Rewrite(root syntax.Type, subs Substitutions) syntax.Type {
	switch t := root.(type) {
	case *syntax.PathType:
		return &syntax.PathType{Path: rewritePath(t.Path, subs)}

	case *syntax.ArrayType:
		return &syntax.ArrayType{Elem: Rewrite(t.Elem, subs), Len: t.Len}

	case *syntax.SliceType:
		return &syntax.SliceType{Elem: Rewrite(t.Elem, subs)}

	case *syntax.PtrType:
		return &syntax.PtrType{Mut: t.Mut, Elem: Rewrite(t.Elem, subs)}

	case *syntax.RefType:
		return &syntax.RefType{Lifetime: t.Lifetime, Mut: t.Mut, Elem: Rewrite(t.Elem, subs)}

	case *syntax.TupleType:
		if t.Elems == nil {
			return &syntax.TupleType{}
		}

		elems := make([]syntax.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Rewrite(e, subs)
		}

		return &syntax.TupleType{Elems: elems}

	case *syntax.MacroType:
		if r, ok := subs[t.Key()]; ok {
			return r
		}

		return t
	}

	return root
}

func rewritePath(p syntax.Path, subs Substitutions) syntax.Path {
	out := syntax.Path{Leading: p.Leading}
	if p.Segments == nil {
		return out
	}

	out.Segments = make([]syntax.Segment, len(p.Segments))

	for i, seg := range p.Segments {
		if seg.Args != nil {
			args := make([]syntax.GenericArg, len(seg.Args))
			for j, arg := range seg.Args {
				if arg.Kind == syntax.ArgType || arg.Kind == syntax.ArgBinding {
					arg.Type = Rewrite(arg.Type, subs)
				}
				args[j] = arg
			}
			seg.Args = args
		}
		out.Segments[i] = seg
	}

	return out
}
