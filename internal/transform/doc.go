// Package transform hoists macro invocations out of a declaration's field
// types into generated aliases.
//
// Key capabilities:
//   - One alias per structurally distinct invocation, shared by every field using it
//   - Minimal alias parameter lists, computed from the invocation's argument tokens
//   - Field types rewritten to reference the aliases, everything else untouched
//   - Notes for invocations hidden in type syntax that is not traversed
//
// A Transformer keeps no state between calls. Each call builds and discards
// its own registry, so one Transformer may serve concurrent callers as long
// as its Namer is safe for concurrent use.
package transform
