package eval

import (
	"fmt"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/gate"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region eval-harness
// EvalHarness checks a selected daily feed against the pool, profile and
// stats it was drawn from.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run validates feed. s must be the stats the feed was selected with, which
// is not necessarily the current stats once choices have been applied.
func (h *EvalHarness) Run(feed []content.Episode, pool []content.Episode, s stats.Stats, p profile.Profile) EvalResult {
	var metrics []EvalMetric
	passed := true
	var failReasons []string

	check := func(name string, value float64, ok bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: ok})
		if !ok {
			passed = false
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Feed size: never above the cap, and full when the pool allows it
	eligible := gate.Eligible(pool, s, p)
	want := min(h.config.MaxFeed, len(eligible))
	check("feed_size", float64(len(feed)), len(feed) == want,
		fmt.Sprintf("feed has %d episodes, expected %d", len(feed), want))

	// 2. Uniqueness
	seen := make(map[string]bool, len(feed))
	dupes := 0
	for _, ep := range feed {
		if seen[ep.ID] {
			dupes++
		}
		seen[ep.ID] = true
	}
	check("duplicate_episodes", float64(dupes), dupes == 0,
		fmt.Sprintf("%d duplicate episodes in feed", dupes))

	// 3. Every episode passes the gate
	vetoed := 0
	var firstVeto string
	for _, ep := range feed {
		d := gate.Evaluate(ep, s, p)
		if !d.Eligible {
			if vetoed == 0 {
				firstVeto = fmt.Sprintf("%s: %s", ep.ID, d.VetoSignals[0].Reason)
			}
			vetoed++
		}
	}
	check("gated_episodes", float64(vetoed), vetoed == 0,
		fmt.Sprintf("%d ineligible episodes in feed (%s)", vetoed, firstVeto))

	// 4. Every episode comes from the pool
	inPool := make(map[string]bool, len(pool))
	for _, ep := range pool {
		inPool[ep.ID] = true
	}
	foreign := 0
	for _, ep := range feed {
		if !inPool[ep.ID] {
			foreign++
		}
	}
	check("foreign_episodes", float64(foreign), foreign == 0,
		fmt.Sprintf("%d episodes not in pool", foreign))

	// 5. Stat bounds: each axis is its own blocking check
	for _, axis := range stats.Axes {
		v := s.Get(axis)
		ok := v >= h.config.MinStat && v <= h.config.MaxStat
		check("stat_"+string(axis), float64(v), ok,
			fmt.Sprintf("%s=%d outside [%d,%d]", axis, v, h.config.MinStat, h.config.MaxStat))
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
// Metric returns the named metric from r.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion helpers
