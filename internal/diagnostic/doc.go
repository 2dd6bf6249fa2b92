// Package diagnostic provides structured warnings, errors and notes
// produced while transforming declarations.
//
// Key capabilities:
//   - Dropped or empty derive list reports
//   - Notes about macro invocations left inside untraversed type syntax
//   - Per-item and per-field locations for every message
package diagnostic
