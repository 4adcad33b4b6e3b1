package selector

import (
	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/gate"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// MaxDaily is the most episodes a day's feed can hold.
const MaxDaily = 3

// #region pick-daily
// PickDailyEpisodes selects up to MaxDaily eligible episodes from pool.
// Picks happen in a fixed order: one matching the top goal tag, one matching
// the affinity tags, one unconstrained, then random padding. The returned
// slice keeps that order. Randomness comes only from src.
func PickDailyEpisodes(p profile.Profile, s stats.Stats, pool []content.Episode, src Source, ext profile.TagExtractor) []content.Episode {
	eligible := gate.Eligible(pool, s, p)
	if len(eligible) == 0 {
		return []content.Episode{}
	}

	picked := make([]content.Episode, 0, MaxDaily)
	used := make(map[string]bool, MaxDaily)

	takeOne := func(match func(content.Episode) bool) {
		var candidates []content.Episode
		for _, ep := range eligible {
			if !used[ep.ID] && match(ep) {
				candidates = append(candidates, ep)
			}
		}
		if len(candidates) == 0 {
			return
		}
		chosen := candidates[Intn(src, len(candidates))]
		picked = append(picked, chosen)
		used[chosen.ID] = true
	}

	// 1. Goal-tag pick
	if tag, ok := profile.TopGoalTag(p); ok {
		takeOne(func(ep content.Episode) bool { return ep.HasTag(tag) })
	}

	// 2. Affinity pick
	if ext != nil {
		if affinity := content.NewTagSet(ext.Tags(p)); len(affinity) > 0 {
			takeOne(func(ep content.Episode) bool { return affinity.AnyOf(ep.Tags) })
		}
	}

	// 3. Unconditional pick
	takeOne(func(content.Episode) bool { return true })

	// 4. Padding
	need := min(MaxDaily, len(eligible))
	if len(picked) < need {
		var rest []content.Episode
		for _, ep := range eligible {
			if !used[ep.ID] {
				rest = append(rest, ep)
			}
		}
		for _, ep := range Shuffle(src, rest) {
			if len(picked) >= need {
				break
			}
			picked = append(picked, ep)
			used[ep.ID] = true
		}
	}

	if len(picked) > MaxDaily {
		picked = picked[:MaxDaily]
	}
	return picked
}

// #endregion pick-daily
