package alias

import (
	"macro-derive/internal/syntax"
	"macro-derive/internal/usage"
)

// Minimize returns the parameters of params referenced by m's arguments, in
// declaration order, with defaults removed. Bounds are kept as written,
// even when they name a parameter m does not use, which is then left
// undeclared on the alias. A nil result means the alias is not generic.
func Minimize(m *syntax.MacroType, params []syntax.GenericParam) []syntax.GenericParam {
	used := usage.UsedParams(m.Tokens, params)
	if len(used) == 0 {
		return nil
	}

	out := make([]syntax.GenericParam, len(used))
	for i, p := range used {
		out[i] = p.WithoutDefault()
	}

	return out
}

// Arguments turns an alias's parameter list into the positional arguments
// used to instantiate it.
func Arguments(params []syntax.GenericParam) []syntax.GenericArg {
	if len(params) == 0 {
		return nil
	}

	args := make([]syntax.GenericArg, len(params))
	for i, p := range params {
		args[i] = p.Arg()
	}

	return args
}

// Reference builds the type that replaces an invocation: the alias name,
// instantiated with params when there are any.
func Reference(name string, params []syntax.GenericParam) syntax.Type {
	seg := syntax.Segment{Name: name}

	if args := Arguments(params); args != nil {
		seg.Angled = true
		seg.Args = args
	}

	return &syntax.PathType{Path: syntax.Path{Segments: []syntax.Segment{seg}}}
}
