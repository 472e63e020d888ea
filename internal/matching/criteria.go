package matching

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is the confidence tier recorded when a match was produced.
type Level string

// Match levels.
const (
	LevelDefault Level = "Default"
	LevelStrict  Level = "Strict"
	LevelLoose   Level = "Loose"
)

// ParseLevel maps a configuration value onto a Level.
func ParseLevel(value string) (Level, error) {
	switch normalizeToken(value) {
	case "default", "":
		return LevelDefault, nil
	case "strict":
		return LevelStrict, nil
	case "loose":
		return LevelLoose, nil
	default:
		return "", fmt.Errorf("unknown match level %q", value)
	}
}

// Criteria is a bit-flag set of the metadata fields that contributed to a
// match.
type Criteria uint8

// Criteria flags, combinable.
const (
	CriterionTrackName Criteria = 1 << iota
	CriterionAlbumName
	CriterionArtists
	CriterionAlbumArtists
)

// AllCriteria combines every field flag.
const AllCriteria = CriterionTrackName | CriterionAlbumName | CriterionArtists | CriterionAlbumArtists

var criterionNames = []struct {
	flag Criteria
	name string
}{
	{CriterionTrackName, "TrackName"},
	{CriterionAlbumName, "AlbumName"},
	{CriterionArtists, "Artists"},
	{CriterionAlbumArtists, "AlbumArtists"},
}

// Has reports whether all flags in other are set.
func (c Criteria) Has(other Criteria) bool {
	return c&other == other
}

// String renders the set as combinable named flags, e.g. "TrackName, Artists".
func (c Criteria) String() string {
	if c == 0 {
		return "None"
	}
	parts := make([]string, 0, len(criterionNames))
	for _, entry := range criterionNames {
		if c.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseCriterion maps a single flag name onto its Criteria bit.
func ParseCriterion(value string) (Criteria, error) {
	switch normalizeToken(value) {
	case "trackname":
		return CriterionTrackName, nil
	case "albumname":
		return CriterionAlbumName, nil
	case "artists":
		return CriterionArtists, nil
	case "albumartists":
		return CriterionAlbumArtists, nil
	case "none", "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown match criterion %q", value)
	}
}

// ParseCriteria parses a combinable named-flag string such as
// "TrackName, AlbumName".
func ParseCriteria(value string) (Criteria, error) {
	var result Criteria
	for _, part := range strings.Split(value, ",") {
		flag, err := ParseCriterion(part)
		if err != nil {
			return 0, err
		}
		result |= flag
	}
	return result, nil
}

// ParseCriteriaList parses a list of flag names, as found in configuration.
func ParseCriteriaList(values []string) (Criteria, error) {
	var result Criteria
	for _, value := range values {
		flag, err := ParseCriterion(value)
		if err != nil {
			return 0, err
		}
		result |= flag
	}
	return result, nil
}

// MarshalJSON serializes the set in its named-flag form.
func (c Criteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the named-flag form.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCriteria(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func normalizeToken(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(value)
}
