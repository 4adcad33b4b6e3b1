package daily

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region manager
// Manager owns the daily state aggregate and the stats vector. It is built
// for a single writer: callers sharing one Manager across goroutines must
// serialize access themselves.
//
// No operation returns an error. Persistence is a projection of in-memory
// state: failed writes are logged and the mutation stands.
type Manager struct {
	store     Store
	clock     Clock
	loc       *time.Location
	src       selector.Source
	extractor profile.TagExtractor
	logger    *slog.Logger
	newID     func() string
	baseline  stats.Stats

	stats     stats.Stats
	day       string
	feed      []content.Episode
	completed []string
	choices   map[string]Choice
	log       []LogEntry
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for day tokens and log timestamps.
func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

// WithLocation sets the zone day tokens are computed in.
func WithLocation(loc *time.Location) Option { return func(m *Manager) { m.loc = loc } }

// WithSource sets the randomness used for selection.
func WithSource(src selector.Source) Option { return func(m *Manager) { m.src = src } }

// WithExtractor replaces the affinity tag strategy.
func WithExtractor(ext profile.TagExtractor) Option { return func(m *Manager) { m.extractor = ext } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithBaseline sets the stats used when none are persisted or they are corrupt.
func WithBaseline(s stats.Stats) Option { return func(m *Manager) { m.baseline = s } }

// WithIDGenerator sets how log entry ids are minted.
func WithIDGenerator(f func() string) Option { return func(m *Manager) { m.newID = f } }

// New builds a Manager and loads its state from store, falling back to
// defaults for any key that is missing or unreadable.
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		clock:     SystemClock{},
		loc:       time.Local,
		extractor: profile.NewKeywordExtractor(),
		logger:    slog.New(slog.DiscardHandler),
		newID:     uuid.NewString,
		baseline:  stats.Baseline(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.src == nil {
		src, _, err := selector.NewSource(0)
		if err != nil {
			m.logger.Warn("crypto seed unavailable, seeding from clock", "error", err)
			src = selector.NewSeeded(time.Now().UnixNano())
		}
		m.src = src
	}
	m.load()
	return m
}

// #endregion manager

// #region load
func (m *Manager) load() {
	m.stats = m.baseline
	m.choices = map[string]Choice{}
	m.feed = []content.Episode{}
	m.completed = []string{}
	m.log = []LogEntry{}

	var st stats.Stats
	if m.decode(KeyStats, &st) {
		m.stats = st
	}
	var day *string
	if m.decode(KeyCurrentDay, &day) && day != nil {
		m.day = *day
	}
	var feed []content.Episode
	if m.decode(KeyDailyFeed, &feed) && feed != nil {
		m.feed = feed
	}
	var completed []string
	if m.decode(KeyDailyCompleted, &completed) && completed != nil {
		m.completed = completed
	}
	var choices map[string]Choice
	if m.decode(KeyDailyChoices, &choices) && choices != nil {
		m.choices = choices
	}
	var entries []LogEntry
	if m.decode(KeyDailyLog, &entries) && entries != nil {
		m.log = entries
	}
}

// decode reports whether key held a usable, non-null value that was decoded
// into dst. Missing keys, JSON null and corrupt data all report false.
func (m *Manager) decode(key Key, dst any) bool {
	raw, err := m.store.Load(key)
	if err != nil {
		m.logger.Warn("load state key failed, using default", "key", key, "error", err)
		return false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		m.logger.Warn("corrupt state key, using default", "key", key, "error", err)
		return false
	}
	return true
}

// #endregion load

// #region ensure-daily-feed
// EnsureDailyFeed selects today's episodes unless a non-empty feed for today
// already exists. On selection it resets completion and choices and persists
// the day. It reports whether a new feed was selected.
func (m *Manager) EnsureDailyFeed(p profile.Profile, pool []content.Episode) bool {
	today := m.Today()
	if m.day == today && len(m.feed) > 0 {
		return false
	}

	feed := selector.PickDailyEpisodes(p, m.stats, pool, m.src, m.extractor)

	previous := m.day
	m.day = today
	m.feed = feed
	m.completed = []string{}
	m.choices = map[string]Choice{}

	m.logger.Info("daily feed selected",
		"day", today,
		"previous_day", previous,
		"episodes", episodeIDs(feed),
		"pool_size", len(pool),
	)
	m.persist(KeyCurrentDay, KeyDailyFeed, KeyDailyCompleted, KeyDailyChoices)
	return true
}

// #endregion ensure-daily-feed

// #region select-option
// SelectOption records the user's answer to one of today's episodes and
// applies deltas to the stats. It reports whether the choice was recorded.
// Repeat answers for a completed episode, episodes not in the feed, and
// option ids the episode does not declare are ignored.
func (m *Manager) SelectOption(episodeID, optionID string, deltas stats.Deltas, outcome string) bool {
	if slices.Contains(m.completed, episodeID) {
		m.logger.Debug("episode already completed, ignoring choice", "episode_id", episodeID, "option_id", optionID)
		return false
	}
	ep, ok := m.feedEpisode(episodeID)
	if !ok {
		m.logger.Warn("choice for episode outside today's feed ignored", "episode_id", episodeID, "day", m.day)
		return false
	}
	if _, ok := ep.Option(optionID); !ok {
		m.logger.Warn("unknown option ignored", "episode_id", episodeID, "option_id", optionID)
		return false
	}

	applied := deltas.Clone()
	next := stats.ApplyChoice(m.stats, applied)
	entry := LogEntry{
		ID:        m.newID(),
		TS:        m.clock.Now().UTC(),
		Day:       m.day,
		EpisodeID: episodeID,
		OptionID:  optionID,
		Outcome:   outcome,
		Deltas:    applied,
	}

	m.stats = next
	m.completed = append(slices.Clip(m.completed), episodeID)
	m.choices = cloneChoices(m.choices)
	m.choices[episodeID] = Choice{OptionID: optionID, Outcome: outcome, Deltas: applied}
	m.log = append(slices.Clip(m.log), entry)

	m.logger.Info("choice recorded",
		"day", m.day,
		"episode_id", episodeID,
		"option_id", optionID,
		"stats", next,
	)
	m.persist(KeyStats, KeyDailyCompleted, KeyDailyChoices, KeyDailyLog)
	return true
}

// Choose answers an episode in today's feed with one of its options, using
// the option's deltas and the episode's outcome text.
func (m *Manager) Choose(episodeID, optionID string) bool {
	ep, ok := m.feedEpisode(episodeID)
	if !ok {
		m.logger.Warn("choice for episode outside today's feed ignored", "episode_id", episodeID, "day", m.day)
		return false
	}
	opt, ok := ep.Option(optionID)
	if !ok {
		m.logger.Warn("unknown option ignored", "episode_id", episodeID, "option_id", optionID)
		return false
	}
	return m.SelectOption(episodeID, optionID, opt.Deltas, ep.Outcome(optionID))
}

// #endregion select-option

// #region reset-day
// ResetDay clears the day token, feed, completion and choices so the next
// EnsureDailyFeed selects again. Stats and the log are kept.
func (m *Manager) ResetDay() {
	m.day = ""
	m.feed = []content.Episode{}
	m.completed = []string{}
	m.choices = map[string]Choice{}

	m.logger.Info("day reset")
	m.persist(KeyCurrentDay, KeyDailyFeed, KeyDailyCompleted, KeyDailyChoices)
}

// #endregion reset-day

// #region accessors
// Today returns the current day token.
func (m *Manager) Today() string {
	return DayToken(m.clock.Now(), m.loc)
}

// Stats returns the current stats.
func (m *Manager) Stats() stats.Stats { return m.stats }

// CurrentDay returns the stored day token, or "" when none is set.
func (m *Manager) CurrentDay() string { return m.day }

// DailyFeed returns today's episodes in selection order.
func (m *Manager) DailyFeed() []content.Episode { return slices.Clone(m.feed) }

// DailyCompleted returns the ids of episodes answered today, in answer order.
func (m *Manager) DailyCompleted() []string { return slices.Clone(m.completed) }

// DailyChoices returns today's recorded choices keyed by episode id.
func (m *Manager) DailyChoices() map[string]Choice { return cloneChoices(m.choices) }

// DailyLog returns every recorded choice event, oldest first.
func (m *Manager) DailyLog() []LogEntry { return slices.Clone(m.log) }

// IsCompleted reports whether episodeID has been answered today.
func (m *Manager) IsCompleted(episodeID string) bool {
	return slices.Contains(m.completed, episodeID)
}

// ChoiceLabel returns the label of the option recorded for episodeID.
func (m *Manager) ChoiceLabel(episodeID string) (string, bool) {
	c, ok := m.choices[episodeID]
	if !ok {
		return "", false
	}
	ep, ok := m.feedEpisode(episodeID)
	if !ok {
		return "", false
	}
	opt, ok := ep.Option(c.OptionID)
	if !ok {
		return "", false
	}
	return opt.Label, true
}

// Progress returns how many of today's episodes are done and the total to
// show. An empty feed still reports a total of selector.MaxDaily.
func (m *Manager) Progress() (done, total int) {
	total = len(m.feed)
	if total == 0 {
		total = selector.MaxDaily
	}
	return len(m.completed), min(selector.MaxDaily, total)
}

// Snapshot returns a copy of the whole aggregate.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Stats:          m.stats,
		CurrentDay:     m.day,
		DailyFeed:      m.DailyFeed(),
		DailyCompleted: m.DailyCompleted(),
		DailyChoices:   m.DailyChoices(),
		DailyLog:       m.DailyLog(),
	}
}

// #endregion accessors

// #region persist
func (m *Manager) persist(keys ...Key) {
	for _, key := range keys {
		value, err := json.Marshal(m.value(key))
		if err != nil {
			m.logger.Warn("encode state key failed", "key", key, "error", err)
			continue
		}
		if err := m.store.Save(key, value); err != nil {
			m.logger.Warn("persist state key failed", "key", key, "error", err)
		}
	}
}

func (m *Manager) value(key Key) any {
	switch key {
	case KeyStats:
		return m.stats
	case KeyCurrentDay:
		if m.day == "" {
			return nil
		}
		return m.day
	case KeyDailyFeed:
		return m.feed
	case KeyDailyCompleted:
		return m.completed
	case KeyDailyChoices:
		return m.choices
	case KeyDailyLog:
		return m.log
	}
	return nil
}

// #endregion persist

// #region helpers
func (m *Manager) feedEpisode(id string) (content.Episode, bool) {
	for _, ep := range m.feed {
		if ep.ID == id {
			return ep, true
		}
	}
	return content.Episode{}, false
}

func cloneChoices(in map[string]Choice) map[string]Choice {
	out := make(map[string]Choice, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func episodeIDs(eps []content.Episode) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.ID
	}
	return out
}

// #endregion helpers
