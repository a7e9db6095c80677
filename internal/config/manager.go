// Package config loads the pipeline's Config record from file, environment,
// and built-in defaults, using the same layered approach the prior
// generation of this codebase used for its own configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// Manager wraps a viper instance and the Config it has been unmarshalled
// into.
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager builds a Manager, loading configuration from disk/env/defaults.
func NewManager() (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to load: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	m.v.SetConfigName("config")
	m.v.SetConfigType("yaml")
	m.v.AddConfigPath(".")
	m.v.AddConfigPath("./config")
	m.v.AddConfigPath("/etc/signalengine/")

	m.v.SetEnvPrefix("SIGNALENGINE")
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	m.setDefaults()

	if err := m.v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &domain.Config{}
	if err := m.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshalling config: %w", err)
	}
	m.config = cfg
	return nil
}

func (m *Manager) setDefaults() {
	m.v.SetDefault("seed", int64(0))

	m.v.SetDefault("normalize.min_a", int64(3))
	m.v.SetDefault("normalize.include_concomitant", false)
	m.v.SetDefault("normalize.dense", false)
	m.v.SetDefault("normalize.max_skip_ratio", 0.01)

	m.v.SetDefault("embed.cluster_threshold", 0.85)
	m.v.SetDefault("embed.min_cohesion", 0.7)
	m.v.SetDefault("embed.embedding_dim", 64)
	m.v.SetDefault("embed.cache_ttl_seconds", 86400)

	m.v.SetDefault("extract.confidence_floor", 0.3)

	m.v.SetDefault("signal.trend_min_quarters", 3)

	m.v.SetDefault("rank.weights.stat", 1.0)
	m.v.SetDefault("rank.weights.trend", 0.5)
	m.v.SetDefault("rank.weights.lit", 0.5)
	m.v.SetDefault("rank.lit_recent_years", 5)

	m.v.SetDefault("database.driver", "sqlite")
	m.v.SetDefault("database.sqlite_path", "./data/synonyms.db")
	m.v.SetDefault("database.host", "localhost")
	m.v.SetDefault("database.port", 5432)
	m.v.SetDefault("database.ssl_mode", "disable")
	m.v.SetDefault("database.max_conns", 10)
	m.v.SetDefault("database.min_conns", 2)

	m.v.SetDefault("cache.enabled", false)
	m.v.SetDefault("cache.redis_url", "redis://localhost:6379/0")

	m.v.SetDefault("logging.level", "info")
	m.v.SetDefault("logging.format", "text")

	m.v.SetDefault("artifact.base_dir", ".")
	m.v.SetDefault("artifact.raw_reports_path", "./data/raw/reports.jsonl")
	m.v.SetDefault("artifact.literature_abstracts_path", "")
}

// GetConfig returns the loaded Config record.
func (m *Manager) GetConfig() *domain.Config { return m.config }

// Reload re-reads configuration from disk/env.
func (m *Manager) Reload() error { return m.loadConfig() }

// Validate checks the range/required-field invariants a config must satisfy
// before a pipeline run starts.
func (m *Manager) Validate() error {
	cfg := m.config
	if cfg == nil {
		return fmt.Errorf("config: not loaded")
	}
	if cfg.Normalize.MinA < 0 {
		return fmt.Errorf("config: normalize.min_a must be non-negative")
	}
	if cfg.Normalize.MaxSkipRatio < 0 || cfg.Normalize.MaxSkipRatio > 1 {
		return fmt.Errorf("config: normalize.max_skip_ratio must be in [0,1]")
	}
	if cfg.Embed.ClusterThreshold < 0 || cfg.Embed.ClusterThreshold > 1 {
		return fmt.Errorf("config: embed.cluster_threshold must be in [0,1]")
	}
	if cfg.Embed.MinCohesion < 0 || cfg.Embed.MinCohesion > 1 {
		return fmt.Errorf("config: embed.min_cohesion must be in [0,1]")
	}
	if cfg.Extract.ConfidenceFloor < 0 || cfg.Extract.ConfidenceFloor > 1 {
		return fmt.Errorf("config: extract.confidence_floor must be in [0,1]")
	}
	if cfg.Signal.TrendMinQuarters < 1 {
		return fmt.Errorf("config: signal.trend_min_quarters must be at least 1")
	}
	if cfg.Rank.Weights.Stat < 0 || cfg.Rank.Weights.Trend < 0 || cfg.Rank.Weights.Lit < 0 {
		return fmt.Errorf("config: rank.weights must be non-negative")
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: database.driver must be postgres or sqlite, got %q", cfg.Database.Driver)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("config: invalid logging.level %q", cfg.Logging.Level)
	}
	if cfg.Artifact.BaseDir == "" {
		return fmt.Errorf("config: artifact.base_dir is required")
	}
	return nil
}
