package replay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/eval"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region types
// Choice answers one episode. Slot indexes the day's feed and is used when
// EpisodeID is empty; -1 means unset.
type Choice struct {
	EpisodeID string
	Slot      int
	OptionID  string
}

// Day is one simulated visit to the app at a fixed instant.
type Day struct {
	At      time.Time
	Reset   bool
	Choices []Choice
}

// ReplayConfig fixes every input that affects selection, so the same config
// and days always produce the same results.
type ReplayConfig struct {
	Seed       int64
	Location   *time.Location
	StartStats stats.Stats
	Profile    profile.Profile
	Pool       []content.Episode
	EvalConfig eval.EvalConfig
	Logger     *slog.Logger
}

// DefaultReplayConfig returns a UTC replay over the default pool from baseline stats.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Seed:       1,
		Location:   time.UTC,
		StartStats: stats.Baseline(),
		Pool:       content.DefaultPool(),
		EvalConfig: eval.DefaultEvalConfig(),
	}
}

// DayResult captures the outcome of replaying one day.
type DayResult struct {
	Day      string
	NewFeed  bool
	Feed     []string
	Recorded int
	Ignored  int

	// Stats the feed was selected with
	StatsBefore stats.Stats
	// Stats after the day's choices
	Stats stats.Stats

	// Nil when the day reused an existing feed
	EvalResult *eval.EvalResult
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalDays     int
	NewFeeds      int
	Recorded      int
	Ignored       int
	EvalFailures  int
	EmptyFeedDays int
	FinalStats    stats.Stats
}

// #endregion types

// #region replay
// Replay drives a Manager over an in-memory store through days in order.
// Each day: optional reset, EnsureDailyFeed, eval of a fresh feed, then the
// day's choices.
func Replay(config ReplayConfig, days []Day) []DayResult {
	results := make([]DayResult, 0, len(days))
	if len(days) == 0 {
		return results
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}

	clock := daily.NewManualClock(days[0].At)
	seq := 0
	m := daily.New(daily.NewMemoryStore(),
		daily.WithClock(clock),
		daily.WithLocation(loc),
		daily.WithSource(selector.NewSeeded(config.Seed)),
		daily.WithBaseline(config.StartStats),
		daily.WithLogger(logger),
		daily.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("replay-%d", seq)
		}),
	)
	evalInst := eval.NewEvalHarness(config.EvalConfig)

	for _, d := range days {
		clock.Set(d.At)
		if d.Reset {
			m.ResetDay()
		}

		before := m.Stats()
		r := DayResult{StatsBefore: before}
		r.NewFeed = m.EnsureDailyFeed(config.Profile, config.Pool)
		feed := m.DailyFeed()
		r.Day = m.CurrentDay()
		r.Feed = make([]string, len(feed))
		for i, ep := range feed {
			r.Feed[i] = ep.ID
		}

		if r.NewFeed {
			res := evalInst.Run(feed, config.Pool, before, config.Profile)
			r.EvalResult = &res
			if !res.Passed {
				logger.Warn("replay feed failed eval", "day", r.Day, "reason", res.Reason)
			}
		}

		for _, c := range d.Choices {
			id := c.EpisodeID
			if id == "" && c.Slot >= 0 && c.Slot < len(feed) {
				id = feed[c.Slot].ID
			}
			if id != "" && m.Choose(id, c.OptionID) {
				r.Recorded++
			} else {
				r.Ignored++
			}
		}
		r.Stats = m.Stats()
		results = append(results, r)
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []DayResult, start stats.Stats) ReplaySummary {
	s := ReplaySummary{
		TotalDays:  len(results),
		FinalStats: start,
	}
	for _, r := range results {
		if r.NewFeed {
			s.NewFeeds++
		}
		if len(r.Feed) == 0 {
			s.EmptyFeedDays++
		}
		if r.EvalResult != nil && !r.EvalResult.Passed {
			s.EvalFailures++
		}
		s.Recorded += r.Recorded
		s.Ignored += r.Ignored
		s.FinalStats = r.Stats
	}
	return s
}

// #endregion replay
