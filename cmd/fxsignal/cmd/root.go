package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsignal/config"
	"github.com/rustyeddy/fxsignal/dukas"
	"github.com/rustyeddy/fxsignal/pipeline"
	"github.com/rustyeddy/fxsignal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fxsignal",
	Short: "Hourly FX signal pipeline: tick decoding, indicators, predictions",
	Long: `fxsignal reconstructs hourly OHLC candles from Dukascopy tick
archives, derives technical indicators, prepares labeled training
sequences, and turns classifier output into BUY/SELL/HOLD signals with
ATR-based take-profit and stop-loss prices.

Data flows through a local store:
  - download / sync   fetch and decode hourly tick archives
  - traindata         build scaled, labeled sequences for the trainer
  - predict           generate and persist trade signals`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "config file (YAML or JSON); env-only when omitted")
}

// loadConfig loads the config file when given, otherwise falls back to
// defaults plus environment overrides.
func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromFile(cfgPath)
	}
	return config.FromEnv()
}

// buildPipeline wires a pipeline from the loaded config. The caller
// owns closing the returned store.
func buildPipeline() (*pipeline.Pipeline, *store.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	client := dukas.NewClient(dukas.Options{
		BaseURL: cfg.Download.BaseURL,
		Workers: cfg.Download.Workers,
	})
	return pipeline.New(cfg, client, st), st, nil
}
