package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxsignal/pipeline"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate trade signals for all configured symbols",
	Long: `Load each symbol's trained model and fitted scaler, compute
indicators over the stored candles, classify the latest window, and
emit a BUY/SELL/HOLD signal with ATR-based exit prices.

Signals are persisted only when confidence clears the configured
threshold and the signal is not HOLD.

Example:
  fxsignal predict -f fxsignal.yaml`,
	RunE: runPredict,
}

var trainDataCmd = &cobra.Command{
	Use:   "traindata",
	Short: "Prepare scaled, labeled training sequences",
	Long: `Compute indicators over each symbol's stored candles, fit and
persist the feature scaler, and export labeled feature windows for the
external model trainer.

Example:
  fxsignal traindata -f fxsignal.yaml`,
	RunE: runTrainData,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(trainDataCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	p, st, err := buildPipeline()
	if err != nil {
		return err
	}
	defer st.Close()

	sum, recs := p.Predict(cmd.Context())
	for _, r := range recs {
		line := fmt.Sprintf("%s: %s (%.2f%%) entry=%.5f", r.Symbol, r.Signal, r.Confidence*100, r.EntryPrice)
		if r.TPPrice != nil && r.SLPrice != nil {
			line += fmt.Sprintf(" tp=%.5f sl=%.5f", *r.TPPrice, *r.SLPrice)
		}
		fmt.Println(line)
	}
	printSummary("predict", sum)
	return nil
}

func runTrainData(cmd *cobra.Command, args []string) error {
	p, st, err := buildPipeline()
	if err != nil {
		return err
	}
	defer st.Close()

	sum := p.TrainData(cmd.Context())
	printSummary("traindata", sum)
	return nil
}

func printSummary(stage string, sum pipeline.Summary) {
	ok, skipped, failed := sum.Counts()
	fmt.Printf("\n%s summary: ok=%d skipped=%d failed=%d\n", stage, ok, skipped, failed)
	for _, o := range sum.Outcomes {
		switch {
		case o.Reason != "":
			fmt.Printf("  %s: %s (%s)\n", o.Symbol, o.Status, o.Reason)
		case o.Count > 0:
			fmt.Printf("  %s: %s (%d)\n", o.Symbol, o.Status, o.Count)
		default:
			fmt.Printf("  %s: %s\n", o.Symbol, o.Status)
		}
	}
}
