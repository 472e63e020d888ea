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

// OverrideStore holds operator-supplied provider-to-library overrides, keyed
// by a case-folded snapshot of the provider track metadata.
type OverrideStore struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock

	mu      sync.RWMutex
	entries []OverrideEntry
	index   map[string]int
}

// NewOverrideStore constructs an override store backed by the provided JSON
// file. The store starts empty; call Load to read existing state.
func NewOverrideStore(path string, logger *slog.Logger) *OverrideStore {
	return &OverrideStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "override_store"),
		lock:   newStoreLock(path),
		index:  make(map[string]int),
	}
}

// Path returns the backing file path.
func (s *OverrideStore) Path() string { return s.path }

// Add inserts an override, replacing any existing entry whose snapshot
// matches so at most one override exists per provider track snapshot.
func (s *OverrideStore) Add(entry OverrideEntry) error {
	if entry.Track.Name == "" {
		return errors.New("override requires a track name snapshot")
	}
	if entry.JellyfinTrackID == "" {
		return errors.New("override requires a jellyfin track id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[entry.Track.Key()]; ok {
		s.removeAtLocked(i)
	}
	s.entries = append(s.entries, entry)
	s.index[entry.Track.Key()] = len(s.entries) - 1
	return nil
}

// Remove deletes the first entry whose snapshot matches and whose library
// item agrees. It reports whether a removal occurred.
func (s *OverrideStore) Remove(entry OverrideEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.entries {
		if existing.Track.Matches(entry.Track) && existing.JellyfinTrackID == entry.JellyfinTrackID {
			s.removeAtLocked(i)
			return true
		}
	}
	return false
}

// RemoveBySnapshot deletes the entry keyed by the snapshot, reporting whether
// a removal occurred.
func (s *OverrideStore) RemoveBySnapshot(snapshot TrackSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[snapshot.Key()]
	if !ok {
		return false
	}
	s.removeAtLocked(i)
	return true
}

// GetBySnapshot returns the override for the snapshot. A missing entry is a
// normal outcome, reported through the boolean.
func (s *OverrideStore) GetBySnapshot(snapshot TrackSnapshot) (OverrideEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[snapshot.Key()]
	if !ok {
		return OverrideEntry{}, false
	}
	return s.entries[i], true
}

// All returns a snapshot copy of the collection in insertion order.
func (s *OverrideStore) All() []OverrideEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]OverrideEntry, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}

// Count returns the number of entries.
func (s *OverrideStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear empties the in-memory collection. The backing file is untouched until
// the next Save.
func (s *OverrideStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = make(map[string]int)
}

// Load reads the backing file. A missing file is not an error: the store
// loads empty. A present but unparseable file is reported as an error and
// leaves the in-memory collection untouched.
func (s *OverrideStore) Load() error {
	data, found, err := readStoreFile(s.path, s.lock)
	if err != nil {
		s.logger.Error("failed to read manual overrides", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return err
	}
	if !found || len(data) == 0 {
		s.mu.Lock()
		s.entries = nil
		s.index = make(map[string]int)
		s.mu.Unlock()
		return nil
	}

	var entries []OverrideEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Error("failed to parse manual overrides", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return fmt.Errorf("parse manual overrides: %w", err)
	}

	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		index[entry.Track.Key()] = i
	}

	s.mu.Lock()
	s.entries = entries
	s.index = index
	s.mu.Unlock()

	s.logger.Debug("loaded manual overrides",
		logging.Int("entry_count", len(entries)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Save serializes the full collection with stable indented formatting and
// overwrites the backing file, creating its directory if needed.
func (s *OverrideStore) Save() error {
	s.mu.RLock()
	entries := make([]OverrideEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Error("failed to serialize manual overrides", logging.Error(err))
		return fmt.Errorf("marshal manual overrides: %w", err)
	}

	if err := writeStoreFile(s.path, s.lock, data); err != nil {
		s.logger.Error("failed to write manual overrides", logging.String(logging.FieldPath, s.path), logging.Error(err))
		return err
	}
	return nil
}

func (s *OverrideStore) removeAtLocked(i int) {
	delete(s.index, s.entries[i].Track.Key())
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Track.Key()] = j
	}
}
