package config

const (
	defaultDataDir             = "~/.local/share/tunebridge"
	defaultAPIBind             = "127.0.0.1:7491"
	defaultJellyfinTimeoutSecs = 30
	defaultMatchingLevel       = "Default"
	defaultMatchingSearchLimit = 20
	defaultMatchingQueryLimit  = 50
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		Jellyfin: Jellyfin{
			TimeoutSeconds: defaultJellyfinTimeoutSecs,
		},
		Matching: Matching{
			Level:       defaultMatchingLevel,
			Criteria:    []string{"TrackName", "AlbumName", "Artists", "AlbumArtists"},
			SearchLimit: defaultMatchingSearchLimit,
			QueryLimit:  defaultMatchingQueryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
