package gate

import "github.com/danielpatrickdp/episode-engine/internal/stats"

// #region veto-type
// VetoType enumerates the reasons an episode can be ineligible.
type VetoType string

const (
	// VetoTaboo: one of the episode's tags is in the profile's taboo set.
	VetoTaboo VetoType = "taboo_tag"
	// VetoProhibited: the gate's tabooNotContains list intersects the profile's taboos.
	VetoProhibited VetoType = "prohibited_taboo"
	// VetoMinStats: a current stat is below the gate's minimum.
	VetoMinStats VetoType = "min_stats"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal is one detected reason for rejecting an episode.
type VetoSignal struct {
	Type   VetoType
	Reason string
	Axis   stats.Axis // set for VetoMinStats
}

// #endregion veto-signal

// #region decision
// Decision is the outcome of evaluating one episode against a profile and stats.
type Decision struct {
	EpisodeID   string
	Eligible    bool
	VetoSignals []VetoSignal // non-empty iff !Eligible
}

// #endregion decision
