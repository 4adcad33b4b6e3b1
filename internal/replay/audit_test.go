package replay

import (
	"slices"
	"testing"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

func TestReplayLogClampsEachStep(t *testing.T) {
	entries := []daily.LogEntry{
		{EpisodeID: "a", Deltas: stats.Deltas{stats.Social: 4}},
		{EpisodeID: "b", Deltas: stats.Deltas{stats.Social: 4}},
		{EpisodeID: "c", Deltas: stats.Deltas{stats.Social: -3}},
	}
	steps := ReplayLog(stats.Baseline(), entries)
	got := []int{steps[0].Stats.Soc, steps[1].Stats.Soc, steps[2].Stats.Soc}
	if !slices.Equal(got, []int{9, 10, 7}) {
		t.Fatalf("expected soc 9,10,7, got %v", got)
	}
	if steps[2].Entry.EpisodeID != "c" {
		t.Fatalf("expected entry carried through, got %+v", steps[2].Entry)
	}
}

func TestAuditMatchesManagerHistory(t *testing.T) {
	clock := daily.NewManualClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	m := daily.New(daily.NewMemoryStore(), daily.WithClock(clock), daily.WithLocation(time.UTC), daily.WithSource(selector.NewSeeded(5)))

	var recorded []stats.Stats
	for day := 0; day < 5; day++ {
		m.EnsureDailyFeed(profileFor(day), content.DefaultPool())
		for _, ep := range m.DailyFeed() {
			if m.Choose(ep.ID, "B") {
				recorded = append(recorded, m.Stats())
			}
		}
		clock.Advance(24 * time.Hour)
	}

	steps := ReplayLog(stats.Baseline(), m.DailyLog())
	if d := Audit(steps, recorded); len(d) != 0 {
		t.Fatalf("expected replayed log to match, diverging at %v", d)
	}

	recorded[0].Eng++
	if d := Audit(steps, recorded); !slices.Equal(d, []int{0}) {
		t.Fatalf("expected divergence at 0, got %v", d)
	}
	if d := Audit(steps, recorded[:len(recorded)-1]); len(d) != 2 || d[1] != len(steps)-1 {
		t.Fatalf("expected first and trailing index, got %v", d)
	}
}

func profileFor(day int) profile.Profile {
	return profile.Profile{MonthlyGoals: profile.MonthlyGoals{Social: day}}
}
