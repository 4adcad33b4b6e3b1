package content

import "github.com/danielpatrickdp/episode-engine/internal/stats"

// #region gate
// Gate is an optional eligibility predicate attached to an episode.
type Gate struct {
	// MinStats holds inclusive per-axis minimums. Axes not present are unconstrained.
	MinStats map[stats.Axis]int `json:"minStats,omitempty"`
	// TabooNotContains lists tags the profile's taboo set must not include.
	TabooNotContains []string `json:"tabooNotContains,omitempty"`
}

// #endregion gate

// #region option
// Option is one selectable answer to an episode.
type Option struct {
	ID     string       `json:"id" validate:"required"`
	Label  string       `json:"label" validate:"required"`
	Deltas stats.Deltas `json:"deltas"`
}

// #endregion option

// #region episode
// Episode is an immutable unit of gated narrative content.
type Episode struct {
	ID           string            `json:"id" validate:"required"`
	Tags         []string          `json:"tags"`
	Gate         *Gate             `json:"gate,omitempty"`
	Scene        string            `json:"scene" validate:"required"`
	Options      []Option          `json:"options" validate:"required,min=1,dive"`
	Outcomes     map[string]string `json:"outcomes"`
	ShareCaption string            `json:"share_caption,omitempty"`
}

// Option returns the option with the given id.
func (e Episode) Option(id string) (Option, bool) {
	for _, o := range e.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Outcome returns the outcome text for an option, or "" when none is declared.
func (e Episode) Outcome(optionID string) string {
	return e.Outcomes[optionID]
}

// HasTag reports whether the episode carries tag, compared case-insensitively.
func (e Episode) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range e.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// #endregion episode
