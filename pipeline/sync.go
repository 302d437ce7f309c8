package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/fxsignal/market"
)

// syncFallback is how far back a sync reaches when the store holds no
// candles for a symbol yet.
const syncFallback = 7 * 24 * time.Hour

// Sync brings the store up to date for every configured symbol,
// resuming each from its latest stored candle.
func (p *Pipeline) Sync(ctx context.Context) Summary {
	var sum Summary
	for _, symbol := range p.cfg.Symbols {
		sum.add(p.syncSymbol(ctx, symbol))
	}
	sum.log("sync")
	return sum
}

func (p *Pipeline) syncSymbol(ctx context.Context, symbol string) Outcome {
	in, err := market.Lookup(symbol)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}
	}

	latest, ok, err := p.store.LatestTimestamp(ctx, symbol, p.tf)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("latest timestamp: %v", err)}
	}

	end := time.Now().UTC().Truncate(time.Hour)
	var start time.Time
	if ok {
		start = latest.Add(time.Hour)
	} else {
		start = end.Add(-syncFallback)
	}
	if start.After(end) {
		return Outcome{Symbol: symbol, Status: Skipped, Reason: "already up to date"}
	}

	slog.Info("syncing", "symbol", symbol, "from", start, "to", end)
	series, report := p.client.FetchRange(ctx, in, start, end)
	if len(series) == 0 {
		return Outcome{Symbol: symbol, Status: Skipped, Reason: "no new data"}
	}

	n, err := p.store.UpsertCandles(ctx, p.tf, series)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("upsert: %v", err)}
	}
	if report.Failed > 0 {
		slog.Warn("sync had fetch failures", "symbol", symbol, "failed_hours", report.Failed)
	}
	return Outcome{Symbol: symbol, Status: OK, Count: n}
}

// Backfill downloads a fixed historical range for every configured
// symbol, for first-time seeding of the store.
func (p *Pipeline) Backfill(ctx context.Context, start, end time.Time) Summary {
	var sum Summary
	for _, symbol := range p.cfg.Symbols {
		in, err := market.Lookup(symbol)
		if err != nil {
			sum.add(Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()})
			continue
		}

		series, _ := p.client.FetchRange(ctx, in, start, end)
		if len(series) == 0 {
			sum.add(Outcome{Symbol: symbol, Status: Skipped, Reason: "no data in range"})
			continue
		}

		n, err := p.store.UpsertCandles(ctx, p.tf, series)
		if err != nil {
			sum.add(Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("upsert: %v", err)})
			continue
		}
		sum.add(Outcome{Symbol: symbol, Status: OK, Count: n})
	}
	sum.log("backfill")
	return sum
}
