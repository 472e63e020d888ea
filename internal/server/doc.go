// Package server exposes the matching engine over HTTP for the tunebridged
// daemon: candidate lookup, batch match acceptance, and inspection of the
// verified match ledger and the manual override store.
//
// Stores are loaded fresh per request and saved at the end of mutating
// requests, matching the single-writer-per-request model of the stores.
package server
