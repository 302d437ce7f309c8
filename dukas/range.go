package dukas

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/fxsignal/market"
)

// RangeReport summarizes a range fetch per hour.
type RangeReport struct {
	OK      int
	Missing int
	Failed  int
}

// Hours counts the hours attempted.
func (r RangeReport) Hours() int { return r.OK + r.Missing + r.Failed }

// FetchRange fetches every whole hour in [start, end] inclusive and
// returns the decoded candles sorted by timestamp. Hours with no data
// leave gaps; nothing is interpolated. Fetches run on a small worker
// pool but share a single pacing ticker so the aggregate request rate
// stays polite regardless of worker count.
func (c *Client) FetchRange(ctx context.Context, in market.Instrument, start, end time.Time) (market.Series, RangeReport) {
	first := start.UTC().Truncate(time.Hour)
	last := end.UTC().Truncate(time.Hour)

	var hours []time.Time
	for t := first; !t.After(last); t = t.Add(time.Hour) {
		hours = append(hours, t)
	}
	if len(hours) == 0 {
		return nil, RangeReport{}
	}

	throttle := time.NewTicker(c.pause)
	defer throttle.Stop()

	jobs := make(chan time.Time)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		series market.Series
		report RangeReport
	)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hour := range jobs {
				select {
				case <-ctx.Done():
					mu.Lock()
					report.Failed++
					mu.Unlock()
					continue
				case <-throttle.C:
				}

				candle, status := c.FetchHour(ctx, in, hour)
				mu.Lock()
				switch status {
				case HourOK:
					series = append(series, candle)
					report.OK++
				case HourMissing:
					report.Missing++
				case HourFailed:
					report.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, h := range hours {
		jobs <- h
	}
	close(jobs)
	wg.Wait()

	series.Sort()
	slog.Info("range fetch done",
		"symbol", in.Symbol,
		"hours", report.Hours(),
		"ok", report.OK,
		"missing", report.Missing,
		"failed", report.Failed)
	return series, report
}
