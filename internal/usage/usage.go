// Package usage finds which generic parameters a macro invocation's raw
// argument tokens refer to.
//
// The check is lexical: arguments are never expanded, so a parameter counts
// as used when its name appears as a token anywhere in the (recursively
// flattened) argument groups. Two shapes are excluded for type and const
// parameters:
//   - the identifier half of a lifetime ('T is a lifetime, not T)
//   - an identifier directly followed by '!' and a group (a nested macro's
//     name)
//
// Any other identifier spelled like a parameter counts, even when the
// macro's own grammar gives it an unrelated meaning.
package usage

import (
	"macro-derive/internal/syntax"
	"macro-derive/internal/token"
)

// Used reports whether p occurs in tokens.
func Used(tokens token.Stream, p syntax.GenericParam) bool {
	if p.Kind == syntax.LifetimeParam {
		return lifetimeUsed(tokens, p.Name)
	}

	return identUsed(tokens, p.Name)
}

// UsedParams returns the parameters of params that occur in tokens,
// preserving their order.
func UsedParams(tokens token.Stream, params []syntax.GenericParam) []syntax.GenericParam {
	var used []syntax.GenericParam

	for _, p := range params {
		if Used(tokens, p) {
			used = append(used, p)
		}
	}

	return used
}

func identUsed(s token.Stream, name string) bool {
	for i, t := range s {
		switch t.Kind {
		case token.Group:
			if identUsed(t.Stream, name) {
				return true
			}

		case token.Ident:
			if t.Text != name {
				continue
			}
			if i > 0 && s[i-1].IsPunct("'") {
				continue
			}
			if i+2 < len(s) && s[i+1].IsPunct("!") && s[i+2].Kind == token.Group {
				continue
			}

			return true
		}
	}

	return false
}

func lifetimeUsed(s token.Stream, name string) bool {
	for i, t := range s {
		switch {
		case t.Kind == token.Group:
			if lifetimeUsed(t.Stream, name) {
				return true
			}

		case t.IsPunct("'"):
			if i+1 < len(s) && s[i+1].IsIdent(name) {
				return true
			}
		}
	}

	return false
}
