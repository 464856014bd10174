// Package config loads the persona CLI configuration from YAML and the
// environment. Priority: ENV > YAML > defaults (env-default tags).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Config is the root application configuration.
type Config struct {
	Reddit   RedditConfig   `yaml:"reddit"`
	Log      LogConfig      `yaml:"log"`
	Taxonomy string         `yaml:"taxonomy" env:"PERSONA_TAXONOMY"`
	Store    StoreConfig    `yaml:"store"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// RedditConfig holds the public JSON API settings.
type RedditConfig struct {
	BaseURL      string        `yaml:"base_url"      env:"REDDIT_BASE_URL"      env-default:"https://www.reddit.com"`
	UserAgent    string        `yaml:"user_agent"    env:"REDDIT_USER_AGENT"    env-default:"persona/1.0"`
	CommentLimit int           `yaml:"comment_limit" env:"REDDIT_COMMENT_LIMIT" env-default:"100"`
	PostLimit    int           `yaml:"post_limit"    env:"REDDIT_POST_LIMIT"    env-default:"50"`
	RPM          int           `yaml:"rpm"           env:"REDDIT_RPM"           env-default:"60"`
	Timeout      time.Duration `yaml:"timeout"       env:"REDDIT_TIMEOUT"       env-default:"15s"`
	MaxRetries   int           `yaml:"max_retries"   env:"REDDIT_MAX_RETRIES"   env-default:"3"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"  env:"LOG_FILE"`
}

// StoreConfig selects where rendered reports go.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"file"`
	Dir    string `yaml:"dir"    env:"STORE_DIR"    env-default:"."`
	DSN    string `yaml:"dsn"    env:"STORE_DSN"    env-default:"persona.db"`
}

// AnalysisConfig tunes the analyzer.
type AnalysisConfig struct {
	Normalize  bool `yaml:"normalize"  env:"ANALYSIS_NORMALIZE"  env-default:"false"`
	Sequential bool `yaml:"sequential" env:"ANALYSIS_SEQUENTIAL" env-default:"false"`
}

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Load reads path when given, otherwise ENV and defaults only. A missing
// explicit file is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges that tags cannot express.
func (c *Config) Validate() error {
	r := c.Reddit
	switch {
	case r.BaseURL == "":
		return fmt.Errorf("%w: reddit.base_url is required", internalerr.ErrInvalidConfig)
	case r.UserAgent == "":
		return fmt.Errorf("%w: reddit.user_agent is required", internalerr.ErrInvalidConfig)
	case r.CommentLimit < 0 || r.PostLimit < 0:
		return fmt.Errorf("%w: reddit limits must be >= 0", internalerr.ErrInvalidConfig)
	case r.RPM <= 0:
		return fmt.Errorf("%w: reddit.rpm must be > 0", internalerr.ErrInvalidConfig)
	case r.Timeout <= 0:
		return fmt.Errorf("%w: reddit.timeout must be > 0", internalerr.ErrInvalidConfig)
	case r.MaxRetries < 0:
		return fmt.Errorf("%w: reddit.max_retries must be >= 0", internalerr.ErrInvalidConfig)
	}

	switch c.Store.Driver {
	case DriverFile, DriverMemory:
	case DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for sqlite", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}
	return nil
}
