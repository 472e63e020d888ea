package provider

const schema = `
CREATE TABLE IF NOT EXISTS provider_tracks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider_id TEXT NOT NULL,
    provider_track_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    album_name TEXT NOT NULL DEFAULT '',
    artists TEXT NOT NULL DEFAULT '[]',
    album_artists TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    UNIQUE (provider_id, provider_track_id)
);

CREATE TABLE IF NOT EXISTS track_matches (
    track_id INTEGER PRIMARY KEY REFERENCES provider_tracks(id) ON DELETE CASCADE,
    jellyfin_item_id TEXT NOT NULL,
    match_level TEXT NOT NULL,
    match_criteria TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_provider_tracks_key
    ON provider_tracks (provider_id, provider_track_id);
`
