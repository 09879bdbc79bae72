package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "8080"
	defaultRateLimitRPS    = 25.0
	defaultRateLimitBurst  = 50
	defaultSessionCapacity = 10_000
	defaultSessionTTL      = 30 * time.Minute
	defaultCacheCapacity   = 4_096
	defaultDiagramBudget   = 400.0
	defaultDiagramMaxScale = 4.0
	defaultDiagramMaxBoxes = 20_000
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > config file > Environment variables > Defaults
type Config struct {
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`
	SessionCapacity      int           `yaml:"-"`
	SessionTTL           time.Duration `yaml:"-"`
	CacheCapacity        int           `yaml:"-"`
	DiagramBudget        float64       `yaml:"-"`
	DiagramMaxScale      float64       `yaml:"-"`
	DiagramMaxBoxes      int           `yaml:"-"`
}

// fileConfig represents the YAML or TOML configuration file structure.
type fileConfig struct {
	Port                 string        `yaml:"port" toml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging" toml:"enable_request_logging"`
	RateLimit            fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
	Sessions             fileSessions  `yaml:"sessions" toml:"sessions"`
	Cache                fileCache     `yaml:"cache" toml:"cache"`
	Diagram              fileDiagram   `yaml:"diagram" toml:"diagram"`
}

// fileRateLimit represents the rate limit section.
type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

type fileSessions struct {
	Capacity int    `yaml:"capacity" toml:"capacity"`
	TTL      string `yaml:"ttl" toml:"ttl"`
}

type fileCache struct {
	Capacity int `yaml:"capacity" toml:"capacity"`
}

type fileDiagram struct {
	Budget   float64 `yaml:"budget" toml:"budget"`
	MaxScale float64 `yaml:"max_scale" toml:"max_scale"`
	MaxBoxes int     `yaml:"max_boxes" toml:"max_boxes"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile      string
	Port            *string
	RateLimitRPS    *float64
	RateLimitBurst  *int
	SessionCapacity *int
	SessionTTL      *time.Duration
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > config file > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables (lowest precedence after defaults)
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Load from YAML/TOML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		fc, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if err := applyFileConfig(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("apply config file: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		SessionCapacity:      defaultSessionCapacity,
		SessionTTL:           defaultSessionTTL,
		CacheCapacity:        defaultCacheCapacity,
		DiagramBudget:        defaultDiagramBudget,
		DiagramMaxScale:      defaultDiagramMaxScale,
		DiagramMaxBoxes:      defaultDiagramMaxBoxes,
	}
}

// loadFromFile decodes a YAML file, or a TOML file when the extension is .toml.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return &fc, nil
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &fc, nil
}

// applyFileConfig applies file configuration to the Config struct.
func applyFileConfig(cfg *Config, fc *fileConfig) error {
	if fc.Port != "" {
		cfg.Port = fc.Port
	}

	durations := []struct {
		raw    string
		target *time.Duration
		name   string
	}{
		{fc.ShutdownGracePeriod, &cfg.ShutdownGracePeriod, "shutdown_grace_period"},
		{fc.ReadHeaderTimeout, &cfg.ReadHeaderTimeout, "read_header_timeout"},
		{fc.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{fc.IdleTimeout, &cfg.IdleTimeout, "idle_timeout"},
		{fc.Sessions.TTL, &cfg.SessionTTL, "sessions.ttl"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.target = parsed
	}

	if fc.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *fc.EnableRequestLogging
	}

	if fc.RateLimit.RPS != nil && *fc.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *fc.RateLimit.RPS
	}

	if fc.RateLimit.Burst != nil && *fc.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *fc.RateLimit.Burst
	}

	if fc.Sessions.Capacity > 0 {
		cfg.SessionCapacity = fc.Sessions.Capacity
	}

	if fc.Cache.Capacity > 0 {
		cfg.CacheCapacity = fc.Cache.Capacity
	}

	if fc.Diagram.Budget > 0 {
		cfg.DiagramBudget = fc.Diagram.Budget
	}

	if fc.Diagram.MaxScale > 0 {
		cfg.DiagramMaxScale = fc.Diagram.MaxScale
	}

	if fc.Diagram.MaxBoxes > 0 {
		cfg.DiagramMaxBoxes = fc.Diagram.MaxBoxes
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if capacity := strings.TrimSpace(os.Getenv("SESSION_CAPACITY")); capacity != "" {
		if value, err := strconv.Atoi(capacity); err == nil && value > 0 {
			cfg.SessionCapacity = value
		}
	}

	if ttl := strings.TrimSpace(os.Getenv("SESSION_TTL")); ttl != "" {
		value, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = value
	}

	if capacity := strings.TrimSpace(os.Getenv("CACHE_CAPACITY")); capacity != "" {
		if value, err := strconv.Atoi(capacity); err == nil && value > 0 {
			cfg.CacheCapacity = value
		}
	}

	if budget := strings.TrimSpace(os.Getenv("DIAGRAM_BUDGET")); budget != "" {
		if value, err := strconv.ParseFloat(budget, 64); err == nil && value > 0 {
			cfg.DiagramBudget = value
		}
	}

	if maxBoxes := strings.TrimSpace(os.Getenv("DIAGRAM_MAX_BOXES")); maxBoxes != "" {
		if value, err := strconv.Atoi(maxBoxes); err == nil && value > 0 {
			cfg.DiagramMaxBoxes = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.SessionCapacity != nil && *overrides.SessionCapacity > 0 {
		cfg.SessionCapacity = *overrides.SessionCapacity
	}

	if overrides.SessionTTL != nil && *overrides.SessionTTL >= 0 {
		cfg.SessionTTL = *overrides.SessionTTL
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.SessionCapacity <= 0 {
		return fmt.Errorf("session capacity must be positive")
	}
	if cfg.SessionTTL < 0 {
		return fmt.Errorf("session TTL must be >= 0")
	}
	if cfg.CacheCapacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}
	if cfg.DiagramMaxBoxes <= 0 {
		return fmt.Errorf("diagram box limit must be positive")
	}
	return nil
}
