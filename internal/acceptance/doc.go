// Package acceptance orchestrates accepting provider-to-library track
// matches: resolving the provider track and the chosen library item,
// recording the manual override and the verified match, writing through to
// the provider track cache, and persisting both stores once per batch.
//
// Failures are isolated per request; one bad entry never aborts its
// siblings. Persistence happens after the whole batch, and a failed save is
// reported as a batch-level error so callers retry the batch as a unit.
package acceptance
