package gate

import (
	"fmt"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region evaluate
// Evaluate runs the unconditional taboo check and then the episode's declared
// gate, collecting every veto that fires. It is pure and keeps no state
// between calls.
func Evaluate(ep content.Episode, s stats.Stats, p profile.Profile) Decision {
	taboos := p.TabooSet()
	var vetoes []VetoSignal

	// 1. Taboo tags exclude regardless of any declared gate
	for _, t := range ep.Tags {
		if taboos.Has(t) {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoTaboo,
				Reason: fmt.Sprintf("tag %q is taboo", t),
			})
			break
		}
	}

	// 2. Declared gate
	if g := ep.Gate; g != nil {
		if len(g.TabooNotContains) > 0 && taboos.Intersects(content.NewTagSet(g.TabooNotContains)) {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoProhibited,
				Reason: "profile taboos intersect prohibited set",
			})
		}
		for _, a := range stats.Axes {
			need, ok := g.MinStats[a]
			if !ok {
				continue
			}
			if cur := s.Get(a); cur < need {
				vetoes = append(vetoes, VetoSignal{
					Type:   VetoMinStats,
					Axis:   a,
					Reason: fmt.Sprintf("%s %d below minimum %d", a, cur, need),
				})
			}
		}
	}

	return Decision{
		EpisodeID:   ep.ID,
		Eligible:    len(vetoes) == 0,
		VetoSignals: vetoes,
	}
}

// #endregion evaluate

// #region passes
// Passes reports whether ep is currently eligible for p at stats s.
func Passes(ep content.Episode, s stats.Stats, p profile.Profile) bool {
	return Evaluate(ep, s, p).Eligible
}

// Eligible filters pool down to the episodes that pass, preserving order.
func Eligible(pool []content.Episode, s stats.Stats, p profile.Profile) []content.Episode {
	out := make([]content.Episode, 0, len(pool))
	for _, ep := range pool {
		if Passes(ep, s, p) {
			out = append(out, ep)
		}
	}
	return out
}

// #endregion passes
