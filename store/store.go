// Package store persists candles and prediction records. The interface
// mirrors the remote time-series store boundary: idempotent candle
// upserts keyed by (symbol, timeframe, timestamp), ordered reads with a
// latest-N mode for sync resumption, and insert-only predictions.
package store

import (
	"context"
	"time"

	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/signal"
)

type Store interface {
	// UpsertCandles writes candles idempotently; re-uploading the same
	// hour never duplicates rows. Returns the number of rows written.
	UpsertCandles(ctx context.Context, tf market.Timeframe, candles market.Series) (int, error)

	// Candles returns all candles for symbol/timeframe ordered by
	// timestamp ascending.
	Candles(ctx context.Context, symbol string, tf market.Timeframe) (market.Series, error)

	// Latest returns the most recent n candles ordered ascending.
	Latest(ctx context.Context, symbol string, tf market.Timeframe, n int) (market.Series, error)

	// LatestTimestamp returns the newest stored candle time, with ok
	// false when no rows exist.
	LatestTimestamp(ctx context.Context, symbol string, tf market.Timeframe) (time.Time, bool, error)

	// InsertPrediction appends one prediction record.
	InsertPrediction(ctx context.Context, rec signal.Record) error

	Close() error
}
