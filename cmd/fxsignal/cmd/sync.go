package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync hourly candles from the provider into the store",
	Long: `Bring the store up to date for every configured symbol.

Each symbol resumes from its latest stored candle; symbols with no
stored data start 7 days back. Hours the provider cannot serve become
gaps, never fabricated candles.

Example:
  fxsignal sync -f fxsignal.yaml`,
	RunE: runSync,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Backfill a historical range of hourly candles",
	Long: `Download and decode a fixed historical range for every
configured symbol, for first-time seeding of the store.

Example:
  fxsignal download --days 30`,
	RunE: runDownload,
}

var downloadDays int

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntVar(&downloadDays, "days", 30, "how many days back to download")
}

func runSync(cmd *cobra.Command, args []string) error {
	p, st, err := buildPipeline()
	if err != nil {
		return err
	}
	defer st.Close()

	sum := p.Sync(cmd.Context())
	printSummary("sync", sum)
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	p, st, err := buildPipeline()
	if err != nil {
		return err
	}
	defer st.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -downloadDays)
	fmt.Printf("Downloading %s -> %s\n", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))

	sum := p.Backfill(cmd.Context(), start, end)
	printSummary("download", sum)
	return nil
}
