package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "XAUUSD"}, cfg.Symbols)
	assert.Equal(t, "H1", cfg.Timeframe)
	assert.Equal(t, 720, cfg.Download.LookbackHours)
	assert.Equal(t, 60, cfg.Model.SequenceLength)
	assert.Equal(t, 0.6, cfg.Model.MinConfidence)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"unknown symbol", func(c *Config) { c.Symbols = []string{"EURUSD", "FAKEPAIR"} }},
		{"unsupported timeframe", func(c *Config) { c.Timeframe = "M5" }},
		{"missing store path", func(c *Config) { c.Store.Path = "" }},
		{"missing model dir", func(c *Config) { c.Model.Dir = "" }},
		{"zero sequence length", func(c *Config) { c.Model.SequenceLength = 0 }},
		{"confidence over 1", func(c *Config) { c.Model.MinConfidence = 1.5 }},
		{"negative confidence", func(c *Config) { c.Model.MinConfidence = -0.1 }},
		{"zero lookback", func(c *Config) { c.Download.LookbackHours = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
symbols:
  - EURUSD
  - USDJPY
timeframe: H1
download:
  lookback_hours: 168
  workers: 2
model:
  dir: /tmp/models
  sequence_length: 60
  min_confidence: 0.7
store:
  path: /tmp/fx.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"EURUSD", "USDJPY"}, cfg.Symbols)
	assert.Equal(t, 168, cfg.Download.LookbackHours)
	assert.Equal(t, 2, cfg.Download.Workers)
	assert.Equal(t, "/tmp/models", cfg.Model.Dir)
	assert.Equal(t, 0.7, cfg.Model.MinConfidence)
	assert.Equal(t, "/tmp/fx.db", cfg.Store.Path)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "symbols": ["GBPJPY"],
  "timeframe": "H1",
  "download": {"lookback_hours": 240},
  "model": {"dir": "./models", "sequence_length": 60, "min_confidence": 0.5},
  "store": {"path": "./fx.db"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GBPJPY"}, cfg.Symbols)
	assert.Equal(t, 240, cfg.Download.LookbackHours)
	assert.Equal(t, 0.5, cfg.Model.MinConfidence)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [EURJPY]\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"EURJPY"}, cfg.Symbols)
	assert.Equal(t, 720, cfg.Download.LookbackHours)
	assert.Equal(t, "./models", cfg.Model.Dir)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("symbols: [NOTAPAIR]\n"), 0644))
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FXSIGNAL_SYMBOLS", "USDCHF,NZDUSD")
	t.Setenv("FXSIGNAL_DB", "/data/fx.db")
	t.Setenv("FXSIGNAL_MODEL_DIR", "/data/models")
	t.Setenv("FXSIGNAL_LOOKBACK_HOURS", "96")
	t.Setenv("FXSIGNAL_MIN_CONFIDENCE", "0.75")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"USDCHF", "NZDUSD"}, cfg.Symbols)
	assert.Equal(t, "/data/fx.db", cfg.Store.Path)
	assert.Equal(t, "/data/models", cfg.Model.Dir)
	assert.Equal(t, 96, cfg.Download.LookbackHours)
	assert.Equal(t, 0.75, cfg.Model.MinConfidence)
}

func TestEnvOverridesIgnoreBadNumbers(t *testing.T) {
	t.Setenv("FXSIGNAL_LOOKBACK_HOURS", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.Download.LookbackHours)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			cfg := Default()
			cfg.Symbols = []string{"XAUUSD"}
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}
