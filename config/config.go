package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/engine"
	"github.com/mindfiredigital/PivotHead-sub001/recommend"
	"github.com/mindfiredigital/PivotHead-sub001/sampler"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the CLI and HTTP adapter.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
type Config struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogDevelopment bool   `yaml:"log_development" env:"LOG_DEVELOPMENT" env-default:"false"`

	Sampler   SamplerConfig   `yaml:"sampler"`
	Histogram HistogramConfig `yaml:"histogram"`

	// TopN keeps the N largest row categories in built charts; 0 keeps all.
	TopN int `yaml:"top_n" env:"TOP_N" env-default:"0"`

	// RulesFile is an optional YAML file overriding recommendation thresholds.
	RulesFile string `yaml:"rules_file" env:"RULES_FILE" env-default:""`

	Server ServerConfig `yaml:"server"`
}

// SamplerConfig bounds category counts before rendering.
type SamplerConfig struct {
	MaxPoints int    `yaml:"max_points" env:"SAMPLER_MAX_POINTS" env-default:"1000"`
	Method    string `yaml:"method" env:"SAMPLER_METHOD" env-default:"lttb"`
	// Seed pins the random source; 0 seeds from the clock.
	Seed int64 `yaml:"seed" env:"SAMPLER_SEED" env-default:"0"`
}

// HistogramConfig holds histogram binning settings.
type HistogramConfig struct {
	Bins int `yaml:"bins" env:"HISTOGRAM_BINS" env-default:"10"`
}

// ServerConfig holds HTTP adapter settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	// MaxBodyBytes caps request bodies, uploads included.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES" env-default:"33554432"`
}

// Load reads configuration from path with environment variable overrides.
// An empty path, or a path that does not exist, reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return cfg, cfg.validate()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if !sampler.Method(c.Sampler.Method).Valid() {
		return fmt.Errorf("%w: sampler.method %q", ErrInvalidConfig, c.Sampler.Method)
	}
	if c.Sampler.MaxPoints < 0 {
		return fmt.Errorf("%w: sampler.max_points %d", ErrInvalidConfig, c.Sampler.MaxPoints)
	}
	if c.Histogram.Bins <= 0 {
		return fmt.Errorf("%w: histogram.bins %d", ErrInvalidConfig, c.Histogram.Bins)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top_n %d", ErrInvalidConfig, c.TopN)
	}
	return nil
}

// NewSampler builds a sampler from the configuration.
// A sampler is not safe for concurrent use; call once per request.
func (s SamplerConfig) NewSampler() *sampler.Sampler {
	cfg := sampler.Config{MaxPoints: s.MaxPoints, Method: sampler.Method(s.Method)}
	if s.Seed == 0 {
		return sampler.New(cfg, nil)
	}
	return sampler.NewSeeded(cfg, s.Seed)
}

// EngineOptions returns the chart builder options this configuration implies.
func (c *Config) EngineOptions(logger *zap.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithSampler(c.Sampler.NewSampler()),
		engine.WithBins(c.Histogram.Bins),
		engine.WithLogger(logger),
	}
	if c.TopN > 0 {
		opts = append(opts, engine.WithLimit(c.TopN))
	}
	return opts
}

// Thresholds loads recommendation thresholds, falling back to the defaults
// when no rules file is configured.
func (c *Config) Thresholds() (recommend.Thresholds, error) {
	if c.RulesFile == "" {
		return recommend.DefaultThresholds(), nil
	}
	return recommend.LoadThresholds(c.RulesFile)
}
