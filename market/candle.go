// Package market defines the core market data types shared by the
// pipeline: ticks, candles and the instrument table.
package market

import (
	"math"
	"sort"
	"time"
)

// Timeframe identifies the candle bucket size.
type Timeframe string

const (
	H1 Timeframe = "H1" // 1 hour
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data for
// one symbol over one time bucket. Immutable once produced.
type Candle struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered sequence of candles for one symbol/timeframe.
// Timestamps are strictly increasing; hours with no data are simply
// absent (sparse, never interpolated).
type Series []Candle

// Sort orders the series by timestamp ascending.
func (s Series) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
}

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Round5 rounds a price to 5 decimal places, the provider's quote
// precision.
func Round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
