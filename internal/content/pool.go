package content

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
)

// #region errors
var (
	ErrDuplicateEpisode = errors.New("duplicate episode id")
	ErrDuplicateOption  = errors.New("duplicate option id")
	ErrUnknownAxis      = errors.New("unknown stat axis")
)

// #endregion errors

// #region default-pool
//go:embed episodes.json
var defaultPoolJSON []byte

var defaultPool = sync.OnceValue(func() []Episode {
	pool, err := ParsePool(defaultPoolJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded episode pool: %v", err))
	}
	return pool
})

// DefaultPool returns a copy of the built-in episode pool.
func DefaultPool() []Episode {
	src := defaultPool()
	out := make([]Episode, len(src))
	copy(out, src)
	return out
}

// #endregion default-pool

// #region load
var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadPool reads and validates a JSON array of episodes from path.
func LoadPool(path string) ([]Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", path, err)
	}
	pool, err := ParsePool(data)
	if err != nil {
		return nil, fmt.Errorf("parse pool %s: %w", path, err)
	}
	return pool, nil
}

// ParsePool decodes and validates a JSON array of episodes.
func ParsePool(data []byte) ([]Episode, error) {
	var pool []Episode
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("decode episodes: %w", err)
	}
	if err := ValidatePool(pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// ValidatePool checks required fields, id uniqueness, and gate axes.
func ValidatePool(pool []Episode) error {
	seen := make(map[string]struct{}, len(pool))
	for i, ep := range pool {
		if err := validate.Struct(ep); err != nil {
			return fmt.Errorf("episode %d (%q): %w", i, ep.ID, err)
		}
		if _, dup := seen[ep.ID]; dup {
			return fmt.Errorf("episode %q: %w", ep.ID, ErrDuplicateEpisode)
		}
		seen[ep.ID] = struct{}{}

		opts := make(map[string]struct{}, len(ep.Options))
		for _, o := range ep.Options {
			if _, dup := opts[o.ID]; dup {
				return fmt.Errorf("episode %q option %q: %w", ep.ID, o.ID, ErrDuplicateOption)
			}
			opts[o.ID] = struct{}{}
		}
		if ep.Gate != nil {
			for a := range ep.Gate.MinStats {
				if !a.Valid() {
					return fmt.Errorf("episode %q gate axis %q: %w", ep.ID, a, ErrUnknownAxis)
				}
			}
		}
	}
	return nil
}

// #endregion load
