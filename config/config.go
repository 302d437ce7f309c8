// Package config loads and validates the pipeline configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxsignal/market"
)

// Config is the complete pipeline configuration.
type Config struct {
	Symbols   []string       `json:"symbols" yaml:"symbols"`
	Timeframe string         `json:"timeframe" yaml:"timeframe"`
	Download  DownloadConfig `json:"download" yaml:"download"`
	Model     ModelConfig    `json:"model" yaml:"model"`
	Store     StoreConfig    `json:"store" yaml:"store"`
}

// DownloadConfig tunes the provider client.
type DownloadConfig struct {
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	LookbackHours int    `json:"lookback_hours" yaml:"lookback_hours"`
	Workers       int    `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// ModelConfig locates artifacts and tunes inference.
type ModelConfig struct {
	Dir            string  `json:"dir" yaml:"dir"`
	SequenceLength int     `json:"sequence_length" yaml:"sequence_length"`
	MinConfidence  float64 `json:"min_confidence" yaml:"min_confidence"`
}

// StoreConfig points at the candle/prediction store.
type StoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON), applies
// environment overrides, then validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// FromEnv builds a config from defaults plus environment variables
// only, for runs without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FXSIGNAL_SYMBOLS"); v != "" {
		c.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("FXSIGNAL_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("FXSIGNAL_MODEL_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := os.Getenv("FXSIGNAL_LOOKBACK_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.LookbackHours = n
		}
	}
	if v := os.Getenv("FXSIGNAL_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Model.MinConfidence = f
		}
	}
}

// Validate checks the configuration. A missing store path is fatal at
// startup.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	for _, s := range c.Symbols {
		if _, err := market.Lookup(s); err != nil {
			return err
		}
	}
	if c.Timeframe != string(market.H1) {
		return fmt.Errorf("unsupported timeframe: %s", c.Timeframe)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("model.dir is required")
	}
	if c.Model.SequenceLength <= 0 {
		return fmt.Errorf("model.sequence_length must be positive")
	}
	if c.Model.MinConfidence < 0 || c.Model.MinConfidence > 1 {
		return fmt.Errorf("model.min_confidence must be in [0,1]")
	}
	if c.Download.LookbackHours <= 0 {
		return fmt.Errorf("download.lookback_hours must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Symbols:   []string{"EURUSD", "GBPUSD", "XAUUSD"},
		Timeframe: string(market.H1),
		Download: DownloadConfig{
			LookbackHours: 720,
			Workers:       4,
		},
		Model: ModelConfig{
			Dir:            "./models",
			SequenceLength: 60,
			MinConfidence:  0.6,
		},
		Store: StoreConfig{
			Path: "./fxsignal.db",
		},
	}
}
