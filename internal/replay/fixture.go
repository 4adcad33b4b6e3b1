package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/eval"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Seed            int64                   `json:"seed"`
	Timezone        string                  `json:"timezone"`
	StartStats      *stats.Stats            `json:"start_stats"`
	Profile         profile.Profile         `json:"profile"`
	Pool            []content.Episode       `json:"pool"`
	EvalConfig      *FixtureEvalConfig      `json:"eval_config"`
	Days            []FixtureDay            `json:"days"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureDay is one simulated visit. Date is a day token or an RFC 3339
// timestamp; a bare day token is read as noon in the fixture's zone.
type FixtureDay struct {
	Date    string          `json:"date"`
	Reset   bool            `json:"reset"`
	Choices []FixtureChoice `json:"choices"`
}

// FixtureChoice answers an episode either by id or by its position in the
// day's feed.
type FixtureChoice struct {
	EpisodeID string `json:"episode_id,omitempty"`
	Slot      *int   `json:"slot,omitempty"`
	OptionID  string `json:"option_id"`
}

// FixtureExpectedResult captures what a day should produce. Nil fields are
// not checked.
type FixtureExpectedResult struct {
	Day        string       `json:"day"`
	FeedSize   *int         `json:"feed_size"`
	Feed       []string     `json:"feed"`
	NewFeed    *bool        `json:"new_feed"`
	Recorded   *int         `json:"recorded"`
	Stats      *stats.Stats `json:"stats"`
	EvalPassed *bool        `json:"eval_passed"`
}

// FixtureEvalConfig mirrors eval.EvalConfig with JSON tags.
type FixtureEvalConfig struct {
	MaxFeed int `json:"max_feed"`
	MinStat int `json:"min_stat"`
	MaxStat int `json:"max_stat"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToReplayConfig converts the fixture header to a domain ReplayConfig. An
// empty pool means the embedded default pool.
func (f *Fixture) ToReplayConfig() (ReplayConfig, error) {
	cfg := DefaultReplayConfig()
	cfg.Seed = f.Seed
	cfg.Profile = f.Profile

	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return ReplayConfig{}, fmt.Errorf("timezone %q: %w", f.Timezone, err)
		}
		cfg.Location = loc
	}
	if f.StartStats != nil {
		cfg.StartStats = *f.StartStats
	}
	if len(f.Pool) > 0 {
		if err := content.ValidatePool(f.Pool); err != nil {
			return ReplayConfig{}, fmt.Errorf("fixture pool: %w", err)
		}
		cfg.Pool = f.Pool
	}
	if f.EvalConfig != nil {
		cfg.EvalConfig = eval.EvalConfig{
			MaxFeed: f.EvalConfig.MaxFeed,
			MinStat: f.EvalConfig.MinStat,
			MaxStat: f.EvalConfig.MaxStat,
		}
	}
	return cfg, nil
}

// ToDays converts the fixture's days to domain Days in loc.
func (f *Fixture) ToDays(loc *time.Location) ([]Day, error) {
	days := make([]Day, len(f.Days))
	for i, fd := range f.Days {
		at, err := parseDate(fd.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		choices := make([]Choice, len(fd.Choices))
		for j, fc := range fd.Choices {
			c := Choice{EpisodeID: fc.EpisodeID, Slot: -1, OptionID: fc.OptionID}
			if fc.Slot != nil {
				c.Slot = *fc.Slot
			}
			if c.EpisodeID == "" && fc.Slot == nil {
				return nil, fmt.Errorf("day %d choice %d: episode_id or slot is required", i, j)
			}
			choices[j] = c
		}
		days[i] = Day{At: at, Reset: fd.Reset, Choices: choices}
	}
	return days, nil
}

// Check compares results against the fixture's expectations and returns one
// message per mismatch.
func (f *Fixture) Check(results []DayResult) []string {
	var problems []string
	if len(f.ExpectedResults) > 0 && len(results) != len(f.ExpectedResults) {
		problems = append(problems, fmt.Sprintf("expected %d days, got %d", len(f.ExpectedResults), len(results)))
		return problems
	}
	for i, want := range f.ExpectedResults {
		got := results[i]
		if want.Day != "" && got.Day != want.Day {
			problems = append(problems, fmt.Sprintf("day %d: expected day=%s, got %s", i, want.Day, got.Day))
		}
		if want.FeedSize != nil && len(got.Feed) != *want.FeedSize {
			problems = append(problems, fmt.Sprintf("day %d (%s): expected feed_size=%d, got %d", i, got.Day, *want.FeedSize, len(got.Feed)))
		}
		if want.Feed != nil && fmt.Sprint(want.Feed) != fmt.Sprint(got.Feed) {
			problems = append(problems, fmt.Sprintf("day %d (%s): expected feed=%v, got %v", i, got.Day, want.Feed, got.Feed))
		}
		if want.NewFeed != nil && got.NewFeed != *want.NewFeed {
			problems = append(problems, fmt.Sprintf("day %d (%s): expected new_feed=%t, got %t", i, got.Day, *want.NewFeed, got.NewFeed))
		}
		if want.Recorded != nil && got.Recorded != *want.Recorded {
			problems = append(problems, fmt.Sprintf("day %d (%s): expected recorded=%d, got %d", i, got.Day, *want.Recorded, got.Recorded))
		}
		if want.Stats != nil && got.Stats != *want.Stats {
			problems = append(problems, fmt.Sprintf("day %d (%s): expected stats=%+v, got %+v", i, got.Day, *want.Stats, got.Stats))
		}
		if want.EvalPassed != nil {
			passed := got.EvalResult == nil || got.EvalResult.Passed
			if passed != *want.EvalPassed {
				problems = append(problems, fmt.Sprintf("day %d (%s): expected eval_passed=%t, got %t", i, got.Day, *want.EvalPassed, passed))
			}
		}
	}
	return problems
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(daily.DayLayout, s, loc); err == nil {
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want %s or RFC 3339", s, daily.DayLayout)
	}
	return t, nil
}

// #endregion fixture-loader
