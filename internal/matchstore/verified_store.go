package matchstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofrs/flock"

	"tunebridge/internal/logging"
)

// VerifiedStore is the verified match ledger: every accepted match, manual or
// automatic, keyed by (providerId, providerTrackId).
type VerifiedStore struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock

	mu      sync.RWMutex
	entries []VerifiedMatch
	index   map[string]int
}

// NewVerifiedStore constructs a ledger backed by the provided JSON file. The
// store starts empty; call Load to read existing state.
func NewVerifiedStore(path string, logger *slog.Logger) *VerifiedStore {
	return &VerifiedStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "verified_store"),
		lock:   newStoreLock(path),
		index:  make(map[string]int),
	}
}

// Path returns the backing file path.
func (s *VerifiedStore) Path() string { return s.path }

// Add inserts a match, replacing any existing entry with the same provider
// key so the ledger holds at most one entry per (providerId, providerTrackId).
func (s *VerifiedStore) Add(match VerifiedMatch) error {
	if match.ProviderID == "" || match.ProviderTrackID == "" {
		return errors.New("verified match requires provider id and provider track id")
	}
	if match.JellyfinTrackID == "" {
		return errors.New("verified match requires a jellyfin track id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[match.Key()]; ok {
		s.removeAtLocked(i)
	}
	s.entries = append(s.entries, match)
	s.index[match.Key()] = len(s.entries) - 1
	return nil
}

// Remove deletes the first entry equal to the given match. It reports whether
// a removal occurred; absence is not an error.
func (s *VerifiedStore) Remove(match VerifiedMatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.entries {
		if entry.Equal(match) {
			s.removeAtLocked(i)
			return true
		}
	}
	return false
}

// RemoveByKey deletes the entry for the provider pair, reporting whether a
// removal occurred.
func (s *VerifiedStore) RemoveByKey(providerID, providerTrackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[verifiedKey(providerID, providerTrackID)]
	if !ok {
		return false
	}
	s.removeAtLocked(i)
	return true
}

// GetByKey returns the entry for the provider pair. A missing entry is a
// normal outcome, reported through the boolean.
func (s *VerifiedStore) GetByKey(providerID, providerTrackID string) (VerifiedMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[verifiedKey(providerID, providerTrackID)]
	if !ok {
		return VerifiedMatch{}, false
	}
	return s.entries[i], true
}

// GetByItem returns all entries pointing at the given library item.
func (s *VerifiedStore) GetByItem(jellyfinTrackID string) []VerifiedMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []VerifiedMatch
	for _, entry := range s.entries {
		if entry.JellyfinTrackID == jellyfinTrackID {
			matches = append(matches, entry)
		}
	}
	return matches
}

// All returns a snapshot copy of the collection in insertion order.
func (s *VerifiedStore) All() []VerifiedMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]VerifiedMatch, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}

// Count returns the number of entries.
func (s *VerifiedStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear empties the in-memory collection. The backing file is untouched until
// the next Save.
func (s *VerifiedStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = make(map[string]int)
}

// Load reads the backing file. A missing file is not an error: the store
// loads empty. A present but unparseable file is reported as an error and
// leaves the in-memory collection untouched.
func (s *VerifiedStore) Load() error {
	data, found, err := readStoreFile(s.path, s.lock)
	if err != nil {
		s.logger.Error("failed to read verified matches", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return err
	}
	if !found || len(data) == 0 {
		s.mu.Lock()
		s.entries = nil
		s.index = make(map[string]int)
		s.mu.Unlock()
		return nil
	}

	var entries []VerifiedMatch
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Error("failed to parse verified matches", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return fmt.Errorf("parse verified matches: %w", err)
	}

	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		index[entry.Key()] = i
	}

	s.mu.Lock()
	s.entries = entries
	s.index = index
	s.mu.Unlock()

	s.logger.Debug("loaded verified matches",
		logging.Int("entry_count", len(entries)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Save serializes the full collection with stable indented formatting and
// overwrites the backing file, creating its directory if needed.
func (s *VerifiedStore) Save() error {
	s.mu.RLock()
	entries := make([]VerifiedMatch, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Error("failed to serialize verified matches", logging.Error(err))
		return fmt.Errorf("marshal verified matches: %w", err)
	}

	if err := writeStoreFile(s.path, s.lock, data); err != nil {
		s.logger.Error("failed to write verified matches", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return err
	}
	return nil
}

func (s *VerifiedStore) removeAtLocked(i int) {
	delete(s.index, s.entries[i].Key())
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Key()] = j
	}
}
