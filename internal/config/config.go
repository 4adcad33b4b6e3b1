package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region config
// Config holds the settings shared by the engine binaries.
type Config struct {
	DBPath    string `env:"EPISODES_DB"         envDefault:"episodes.db"`
	Namespace string `env:"EPISODES_NAMESPACE"  envDefault:"default"`
	Addr      string `env:"EPISODES_ADDR"       envDefault:"localhost:50061"`
	PoolPath  string `env:"EPISODES_POOL"`
	Profile   string `env:"EPISODES_PROFILE"`
	Timezone  string `env:"EPISODES_TZ"         envDefault:"Local"`
	Seed      int64  `env:"EPISODES_SEED"       envDefault:"0"`
	Baseline  int    `env:"EPISODES_BASELINE"   envDefault:"5"`
	LogLevel  string `env:"EPISODES_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"EPISODES_LOG_FORMAT" envDefault:"text"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig reads Config from the environment, then lets flags in args
// override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RegisterFlags binds every field to a flag whose default is the current value.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.Namespace, "namespace", c.Namespace, "state namespace (one per device or session)")
	fs.StringVar(&c.Addr, "addr", c.Addr, "gRPC address")
	fs.StringVar(&c.PoolPath, "pool", c.PoolPath, "episode pool JSON (empty = built-in pool)")
	fs.StringVar(&c.Profile, "profile", c.Profile, "profile JSON")
	fs.StringVar(&c.Timezone, "tz", c.Timezone, "IANA zone for day boundaries")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "selection seed (0 = random)")
	fs.IntVar(&c.Baseline, "baseline", c.Baseline, "starting value for every stat")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
}

// #endregion config

// #region resolve
// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// BaselineStats returns every axis at Baseline, clamped to the stat range.
func (c Config) BaselineStats() stats.Stats {
	return stats.Uniform(c.Baseline)
}

// LoadPool returns the configured pool, or the built-in pool when PoolPath is empty.
func (c Config) LoadPool() ([]content.Episode, error) {
	if c.PoolPath == "" {
		return content.DefaultPool(), nil
	}
	return content.LoadPool(c.PoolPath)
}

// LoadProfile returns the configured profile. An unreadable or corrupt file
// yields the default profile along with the error.
func (c Config) LoadProfile() (profile.Profile, error) {
	if c.Profile == "" {
		return profile.Profile{}, nil
	}
	return profile.Load(c.Profile)
}

// #endregion resolve
