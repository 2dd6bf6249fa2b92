// Package expand applies the transformer to a whole source file.
//
// Key capabilities:
//   - Locates items carrying the configured attribute, at top level and
//     inside inline module blocks
//   - Transforms each item independently
//   - Splices the generated text over the original item, keeping its
//     indentation and every byte of the file outside annotated items
//   - Warns about attributes spelled almost like the marker, which would
//     otherwise leave an item silently unexpanded
//   - Writes expanded files next to each other in an output directory
package expand
