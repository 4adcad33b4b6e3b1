package state

import (
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region stat-version
// StatVersion is one persisted stats value. Versions form a chain through
// ParentID; the newest is the namespace's active version.
type StatVersion struct {
	VersionID string
	ParentID  string
	Namespace string
	Stats     stats.Stats
	CreatedAt time.Time
}

// #endregion stat-version

// #region entry
// Entry is one raw key/value row.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// #endregion entry
