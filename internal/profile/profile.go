package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/episode-engine/internal/content"
)

// #region types
// MonthlyGoals weights the four goal categories, 0 (none) to 3.
type MonthlyGoals struct {
	Health   int `json:"health"`
	Social   int `json:"social"`
	Creative int `json:"creative"`
	Wealth   int `json:"wealth"`
}

// Profile is the read-only view of the user the engine gates and selects on.
type Profile struct {
	Taboos       []string     `json:"taboos"`
	MonthlyGoals MonthlyGoals `json:"monthlyGoals"`
	Profession   string       `json:"profession"`
	Hobbies      []string     `json:"hobbies"`
	Interests    []string     `json:"interests"`
}

// TabooSet returns the profile's taboos folded for case-insensitive lookup.
func (p Profile) TabooSet() content.TagSet {
	return content.NewTagSet(p.Taboos)
}

// #endregion types

// #region load
// Load reads a profile from a JSON file. Fields missing from the file keep
// their zero values. A corrupt file yields the empty profile together with
// the decode error, so callers can log it and carry on.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a profile. On error the returned profile is the empty one.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// #endregion load
