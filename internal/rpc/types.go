package rpc

import (
	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region requests
// EnsureDailyFeedRequest asks for today's feed. A nil Profile uses the
// server's configured profile.
type EnsureDailyFeedRequest struct {
	Profile *profile.Profile `json:"profile,omitempty"`
}

// SelectOptionRequest records a choice with caller-supplied deltas and outcome.
type SelectOptionRequest struct {
	EpisodeID string       `json:"episodeId"`
	OptionID  string       `json:"optionId"`
	Deltas    stats.Deltas `json:"deltas"`
	Outcome   string       `json:"outcome"`
}

// ChooseRequest records a choice resolved from the episode's own option.
type ChooseRequest struct {
	EpisodeID string `json:"episodeId"`
	OptionID  string `json:"optionId"`
}

// GetStateRequest reads the aggregate. IncludeLog adds the full choice log.
type GetStateRequest struct {
	IncludeLog bool `json:"includeLog,omitempty"`
}

// #endregion requests

// #region replies
// Progress is the done/total counter shown above the feed.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// FeedReply is returned by EnsureDailyFeed.
type FeedReply struct {
	Selected  bool              `json:"selected"`
	Day       string            `json:"day"`
	Feed      []content.Episode `json:"feed"`
	Completed []string          `json:"completed"`
	Stats     stats.Stats       `json:"stats"`
	Progress  Progress          `json:"progress"`
}

// ChoiceReply is returned by SelectOption and Choose.
type ChoiceReply struct {
	Recorded  bool        `json:"recorded"`
	Label     string      `json:"label,omitempty"`
	Outcome   string      `json:"outcome,omitempty"`
	Stats     stats.Stats `json:"stats"`
	Completed []string    `json:"completed"`
	Progress  Progress    `json:"progress"`
}

// NewChoiceReply reports the outcome of a choice on episodeID against m's
// current state. Label and Outcome are set once the episode has a recorded
// choice today.
func NewChoiceReply(m *daily.Manager, episodeID string, recorded bool) ChoiceReply {
	done, total := m.Progress()
	out := ChoiceReply{
		Recorded:  recorded,
		Stats:     m.Stats(),
		Completed: m.DailyCompleted(),
		Progress:  Progress{Done: done, Total: total},
	}
	if c, ok := m.DailyChoices()[episodeID]; ok {
		out.Outcome = c.Outcome
		out.Label, _ = m.ChoiceLabel(episodeID)
	}
	return out
}

// StateReply is returned by GetState and ResetDay.
type StateReply struct {
	Today          string                  `json:"today"`
	Stats          stats.Stats             `json:"stats"`
	CurrentDay     string                  `json:"currentDay"`
	DailyFeed      []content.Episode       `json:"dailyFeed"`
	DailyCompleted []string                `json:"dailyCompleted"`
	DailyChoices   map[string]daily.Choice `json:"dailyChoices"`
	DailyLog       []daily.LogEntry        `json:"dailyLog,omitempty"`
	Progress       Progress                `json:"progress"`
}

// #endregion replies
