package testsupport

import (
	"testing"

	"tunebridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp data directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithJellyfin sets the Jellyfin connection on the test config.
func WithJellyfin(url, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Jellyfin.URL = url
		cfg.Jellyfin.APIKey = apiKey
	}
}

// WithMatching sets the recorded matching level and criteria on the test
// config.
func WithMatching(level string, criteria ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Level = level
		cfg.Matching.Criteria = criteria
	}
}
