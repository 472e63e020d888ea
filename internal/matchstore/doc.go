// Package matchstore persists accepted provider-to-library track matches.
//
// Two stores share the same discipline: an in-memory ordered collection with
// at most one entry per key (adding a duplicate key replaces the old entry),
// loaded from and saved to a human-readable JSON file as a whole. Save always
// writes the complete collection; there is no dirty tracking, callers persist
// explicitly after mutating.
//
// The OverrideStore keys entries by a case-folded snapshot of the provider
// track's name, album, and artists. The VerifiedStore keys entries by the
// (providerId, providerTrackId) pair, which is the stronger identity.
//
// Load and Save take a file lock (gofrs/flock) on a sibling .lock file so
// concurrent processes cannot interleave whole-file overwrites. In-process
// access is guarded by an RWMutex.
package matchstore
