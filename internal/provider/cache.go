package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tunebridge/internal/matching"
)

// Cache manages provider track persistence backed by SQLite.
type Cache struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the provider track database, creating the
// parent directory and schema as needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string { return c.path }

// SaveTrack inserts or updates a provider track and returns its internal id.
func (c *Cache) SaveTrack(ctx context.Context, track Track) (int64, error) {
	if track.ProviderID == "" || track.ProviderTrackID == "" {
		return 0, errors.New("track requires provider id and provider track id")
	}

	artists, err := json.Marshal(emptyIfNil(track.Artists))
	if err != nil {
		return 0, fmt.Errorf("marshal artists: %w", err)
	}
	albumArtists, err := json.Marshal(emptyIfNil(track.AlbumArtists))
	if err != nil {
		return 0, fmt.Errorf("marshal album artists: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = c.db.ExecContext(ctx, `
        INSERT INTO provider_tracks (provider_id, provider_track_id, name, album_name, artists, album_artists, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (provider_id, provider_track_id) DO UPDATE SET
            name = excluded.name,
            album_name = excluded.album_name,
            artists = excluded.artists,
            album_artists = excluded.album_artists`,
		track.ProviderID, track.ProviderTrackID, track.Name, track.AlbumName,
		string(artists), string(albumArtists), now)
	if err != nil {
		return 0, fmt.Errorf("save provider track: %w", err)
	}

	return c.GetTrackID(ctx, track.ProviderID, track.ProviderTrackID)
}

// GetTrackID resolves the internal id for a provider pair. Absence is
// reported as ErrNotFound.
func (c *Cache) GetTrackID(ctx context.Context, providerID, providerTrackID string) (int64, error) {
	if strings.TrimSpace(providerID) == "" || strings.TrimSpace(providerTrackID) == "" {
		return 0, errors.New("provider id and provider track id are required")
	}

	var id int64
	err := c.db.QueryRowContext(ctx,
		`SELECT id FROM provider_tracks WHERE provider_id = ? AND provider_track_id = ?`,
		providerID, providerTrackID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("look up provider track id: %w", err)
	}
	return id, nil
}

// GetTrack fetches a cached track by provider id and internal id. Absence is
// reported as ErrNotFound.
func (c *Cache) GetTrack(ctx context.Context, providerID string, id int64) (*Track, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT id, provider_id, provider_track_id, name, album_name, artists, album_artists
        FROM provider_tracks
        WHERE provider_id = ? AND id = ?`,
		providerID, id)
	return scanTrack(row)
}

// GetTrackByKey fetches a cached track by its provider pair. Absence is
// reported as ErrNotFound.
func (c *Cache) GetTrackByKey(ctx context.Context, providerID, providerTrackID string) (*Track, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT id, provider_id, provider_track_id, name, album_name, artists, album_artists
        FROM provider_tracks
        WHERE provider_id = ? AND provider_track_id = ?`,
		providerID, providerTrackID)
	return scanTrack(row)
}

// RecordMatch writes the resolved library match for a cached track,
// overwriting any prior record.
func (c *Cache) RecordMatch(ctx context.Context, trackID int64, jellyfinTrackID string, level matching.Level, criteria matching.Criteria) error {
	if trackID <= 0 {
		return errors.New("track id is required")
	}
	if strings.TrimSpace(jellyfinTrackID) == "" {
		return errors.New("jellyfin track id is required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO track_matches (track_id, jellyfin_item_id, match_level, match_criteria, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (track_id) DO UPDATE SET
            jellyfin_item_id = excluded.jellyfin_item_id,
            match_level = excluded.match_level,
            match_criteria = excluded.match_criteria,
            updated_at = excluded.updated_at`,
		trackID, jellyfinTrackID, string(level), criteria.String(), now)
	if err != nil {
		return fmt.Errorf("record track match: %w", err)
	}
	return nil
}

// GetMatch fetches the recorded match for a cached track. Absence is reported
// as ErrNotFound.
func (c *Cache) GetMatch(ctx context.Context, trackID int64) (*Match, error) {
	var (
		match       Match
		rawLevel    string
		rawCriteria string
		rawUpdated  string
	)
	err := c.db.QueryRowContext(ctx, `
        SELECT track_id, jellyfin_item_id, match_level, match_criteria, updated_at
        FROM track_matches
        WHERE track_id = ?`,
		trackID).Scan(&match.TrackID, &match.JellyfinTrackID, &rawLevel, &rawCriteria, &rawUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up track match: %w", err)
	}

	level, err := matching.ParseLevel(rawLevel)
	if err != nil {
		return nil, fmt.Errorf("stored match level: %w", err)
	}
	criteria, err := matching.ParseCriteria(rawCriteria)
	if err != nil {
		return nil, fmt.Errorf("stored match criteria: %w", err)
	}
	match.Level = level
	match.Criteria = criteria
	if parsed, parseErr := time.Parse(time.RFC3339Nano, rawUpdated); parseErr == nil {
		match.UpdatedAt = parsed
	}
	return &match, nil
}

func scanTrack(row *sql.Row) (*Track, error) {
	var (
		track           Track
		rawArtists      string
		rawAlbumArtists string
	)
	err := row.Scan(&track.ID, &track.ProviderID, &track.ProviderTrackID,
		&track.Name, &track.AlbumName, &rawArtists, &rawAlbumArtists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan provider track: %w", err)
	}

	if err := json.Unmarshal([]byte(rawArtists), &track.Artists); err != nil {
		return nil, fmt.Errorf("parse artists: %w", err)
	}
	if err := json.Unmarshal([]byte(rawAlbumArtists), &track.AlbumArtists); err != nil {
		return nil, fmt.Errorf("parse album artists: %w", err)
	}
	return &track, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
