// Package indicators computes technical analysis indicators over a
// candle series. All values are causal: each depends only on candles at
// or before its own index.
package indicators

import (
	"errors"
	"math"

	"github.com/rustyeddy/fxsignal/market"
)

// MinCandles is the minimum series length before indicators are
// attached at all.
const MinCandles = 200

// ErrInsufficientData is returned when a series is too short for the
// requested computation.
var ErrInsufficientData = errors.New("insufficient data")

// Streaming computes a single value from closed candles, one at a time.
// Deterministic and safe to reuse across live and historical runs.
type Streaming interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed candle.
	Update(c market.Candle)

	// Ready reports whether Value is meaningful.
	Ready() bool

	// Value returns the current value; callers must check Ready first.
	Value() float64
}

// Set holds the indicator values attached to one candle. A value is
// NaN until its lookback window has accumulated enough history;
// availability is monotonic within a contiguous series.
type Set struct {
	RSI14      float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	EMA20      float64
	EMA50      float64
	EMA200     float64
	ATR14      float64
}

func emptySet() Set {
	nan := math.NaN()
	return Set{
		RSI14: nan, MACD: nan, MACDSignal: nan, MACDHist: nan,
		BBUpper: nan, BBMiddle: nan, BBLower: nan,
		EMA20: nan, EMA50: nan, EMA200: nan, ATR14: nan,
	}
}

// Available reports whether an indicator value has left its warmup.
func Available(v float64) bool { return !math.IsNaN(v) }

// Complete reports whether every indicator in the set is available.
// EMA-200 has the longest lookback, so the first complete row of a
// series is index 199.
func (s Set) Complete() bool {
	for _, v := range []float64{
		s.RSI14, s.MACD, s.MACDSignal, s.MACDHist,
		s.BBUpper, s.BBMiddle, s.BBLower,
		s.EMA20, s.EMA50, s.EMA200, s.ATR14,
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Row pairs a candle with its indicator set.
type Row struct {
	market.Candle
	Set
}
