package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validMatchLevels = map[string]struct{}{
	"default": {},
	"strict":  {},
	"loose":   {},
}

var validMatchCriteria = map[string]struct{}{
	"trackname":    {},
	"albumname":    {},
	"artists":      {},
	"albumartists": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateJellyfin(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateJellyfin() error {
	if c.Jellyfin.URL == "" {
		return nil // store-only commands work without a server
	}
	parsed, err := url.Parse(c.Jellyfin.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("jellyfin.url %q is not a valid URL", c.Jellyfin.URL)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if _, ok := validMatchLevels[normalizeEnumToken(c.Matching.Level)]; !ok {
		return fmt.Errorf("matching.level %q is not one of Default, Strict, Loose", c.Matching.Level)
	}
	for _, criterion := range c.Matching.Criteria {
		if _, ok := validMatchCriteria[normalizeEnumToken(criterion)]; !ok {
			return fmt.Errorf("matching.criteria entry %q is not one of TrackName, AlbumName, Artists, AlbumArtists", criterion)
		}
	}
	if c.Matching.SearchLimit > 100 {
		return errors.New("matching.search_limit must be 100 or less")
	}
	return nil
}

func normalizeEnumToken(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(value)
}
