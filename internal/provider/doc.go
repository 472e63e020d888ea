// Package provider implements the provider track cache: a SQLite-backed
// store of track metadata imported from external music providers, keyed by
// (provider id, provider track id), plus the recorded match for each track.
//
// The matching engine treats this package as a read-mostly collaborator;
// RecordMatch is the only write performed during acceptance and is
// best-effort from the workflow's point of view.
package provider
