// Package textutil provides text helpers shared by the matching engine.
//
// The primary use cases are:
//   - Case-folded string comparison for provider/library metadata fields
//   - Flattening artist name lists into a single comparable string
//   - Rune-safe truncation of search query text
package textutil
