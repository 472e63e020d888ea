// Package matching implements the track matching engine: per-field metadata
// comparison between provider tracks and Jellyfin library items, and
// difference-ranked candidate search.
//
// Comparison is case-insensitive (Unicode case folding) and list-valued
// fields are compared as a comma-joined string in original order. Candidate
// ranking orders by difference count ascending and is stable with respect to
// the library's own result order.
package matching
