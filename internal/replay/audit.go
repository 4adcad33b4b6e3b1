package replay

import (
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region audit
// LogStep is one re-applied choice log entry.
type LogStep struct {
	Entry daily.LogEntry
	Stats stats.Stats
}

// ReplayLog re-applies every entry's deltas to start, oldest first, and
// returns the stats after each step.
func ReplayLog(start stats.Stats, entries []daily.LogEntry) []LogStep {
	steps := make([]LogStep, len(entries))
	cur := start
	for i, e := range entries {
		cur = stats.ApplyChoice(cur, e.Deltas)
		steps[i] = LogStep{Entry: e, Stats: cur}
	}
	return steps
}

// Audit compares replayed steps against recorded stats, pairing step i with
// recorded[i]. It returns the indexes that differ; a length mismatch reports
// every unpaired index.
func Audit(steps []LogStep, recorded []stats.Stats) []int {
	var diverge []int
	for i := 0; i < max(len(steps), len(recorded)); i++ {
		if i >= len(steps) || i >= len(recorded) || steps[i].Stats != recorded[i] {
			diverge = append(diverge, i)
		}
	}
	return diverge
}

// #endregion audit
