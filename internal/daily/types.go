package daily

import (
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region keys
// Key names one persisted value. Values are JSON.
type Key string

const (
	KeyStats          Key = "stats"
	KeyCurrentDay     Key = "currentDay"
	KeyDailyFeed      Key = "dailyFeed"
	KeyDailyCompleted Key = "dailyCompleted"
	KeyDailyChoices   Key = "dailyChoices"
	KeyDailyLog       Key = "dailyLog"
)

// Keys lists every persisted key.
var Keys = []Key{KeyStats, KeyCurrentDay, KeyDailyFeed, KeyDailyCompleted, KeyDailyChoices, KeyDailyLog}

// #endregion keys

// #region store
// Store is the persistence port. Load returns (nil, nil) for a key that has
// never been saved.
type Store interface {
	Load(key Key) ([]byte, error)
	Save(key Key, value []byte) error
}

// #endregion store

// #region choice
// Choice is the recorded answer for one episode of the day.
type Choice struct {
	OptionID string       `json:"optionId"`
	Outcome  string       `json:"outcome"`
	Deltas   stats.Deltas `json:"deltas"`
}

// LogEntry is one append-only choice event. The log is not day-scoped.
type LogEntry struct {
	ID        string       `json:"id,omitempty"`
	TS        time.Time    `json:"ts"`
	Day       string       `json:"day,omitempty"`
	EpisodeID string       `json:"episodeId"`
	OptionID  string       `json:"optionId"`
	Outcome   string       `json:"outcome"`
	Deltas    stats.Deltas `json:"deltas"`
}

// #endregion choice

// #region snapshot
// Snapshot is a read-only copy of everything the Manager owns.
type Snapshot struct {
	Stats          stats.Stats       `json:"stats"`
	CurrentDay     string            `json:"currentDay"`
	DailyFeed      []content.Episode `json:"dailyFeed"`
	DailyCompleted []string          `json:"dailyCompleted"`
	DailyChoices   map[string]Choice `json:"dailyChoices"`
	DailyLog       []LogEntry        `json:"dailyLog"`
}

// #endregion snapshot
