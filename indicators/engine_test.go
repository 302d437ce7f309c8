package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxsignal/market"
)

// makeSeries builds n hourly candles with a gently oscillating close so
// gains and losses both occur.
func makeSeries(n int) market.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(market.Series, n)
	for i := 0; i < n; i++ {
		c := 1.2 + 0.01*math.Sin(float64(i)/7.0)
		series[i] = market.Candle{
			Symbol: "EURUSD",
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   c - 0.0002,
			High:   c + 0.0005,
			Low:    c - 0.0005,
			Close:  c,
			Volume: 100,
		}
	}
	return series
}

func TestComputeInsufficientData(t *testing.T) {
	series := makeSeries(199)
	rows, err := Compute(series)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Candles are returned untouched, with every indicator unavailable.
	require.Len(t, rows, 199)
	for i, row := range rows {
		assert.Equal(t, series[i], row.Candle)
		assert.False(t, row.Set.Complete())
		assert.False(t, Available(row.RSI14))
		assert.False(t, Available(row.EMA200))
	}
}

func TestComputeLengthPreserved(t *testing.T) {
	series := makeSeries(250)
	rows, err := Compute(series)
	require.NoError(t, err)
	require.Len(t, rows, 250)

	for i, row := range rows {
		assert.Equal(t, series[i].Time, row.Time)
		assert.Equal(t, series[i].Close, row.Close)
	}
}

func TestComputeWarmupBoundaries(t *testing.T) {
	rows, err := Compute(makeSeries(250))
	require.NoError(t, err)

	cases := []struct {
		name  string
		value func(Set) float64
		first int
	}{
		{"rsi 14", func(s Set) float64 { return s.RSI14 }, 14},
		{"macd line", func(s Set) float64 { return s.MACD }, 25},
		{"macd signal", func(s Set) float64 { return s.MACDSignal }, 33},
		{"bollinger", func(s Set) float64 { return s.BBMiddle }, 19},
		{"ema 20", func(s Set) float64 { return s.EMA20 }, 19},
		{"ema 50", func(s Set) float64 { return s.EMA50 }, 49},
		{"ema 200", func(s Set) float64 { return s.EMA200 }, 199},
		{"atr 14", func(s Set) float64 { return s.ATR14 }, 14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, Available(tc.value(rows[tc.first-1].Set)),
				"index %d should still be warming up", tc.first-1)
			for i := tc.first; i < len(rows); i++ {
				assert.True(t, Available(tc.value(rows[i].Set)),
					"index %d should be available", i)
			}
		})
	}
}

func TestComputeFirstCompleteRow(t *testing.T) {
	rows, err := Compute(makeSeries(250))
	require.NoError(t, err)

	for i := 0; i < 199; i++ {
		assert.False(t, rows[i].Set.Complete(), "index %d", i)
	}
	for i := 199; i < len(rows); i++ {
		assert.True(t, rows[i].Set.Complete(), "index %d", i)
	}
}

func TestComputeValues(t *testing.T) {
	rows, err := Compute(makeSeries(250))
	require.NoError(t, err)

	last := rows[len(rows)-1]

	t.Run("rsi in range", func(t *testing.T) {
		assert.GreaterOrEqual(t, last.RSI14, 0.0)
		assert.LessOrEqual(t, last.RSI14, 100.0)
	})

	t.Run("bollinger ordering", func(t *testing.T) {
		assert.Greater(t, last.BBUpper, last.BBMiddle)
		assert.Greater(t, last.BBMiddle, last.BBLower)
	})

	t.Run("histogram consistency", func(t *testing.T) {
		assert.InDelta(t, last.MACD-last.MACDSignal, last.MACDHist, 1e-12)
	})

	t.Run("atr positive", func(t *testing.T) {
		assert.Greater(t, last.ATR14, 0.0)
	})
}

func TestComputeCausal(t *testing.T) {
	// Indicator values at index i must not change when later candles
	// are appended.
	long := makeSeries(260)
	short := long[:230]

	longRows, err := Compute(long)
	require.NoError(t, err)
	shortRows, err := Compute(short)
	require.NoError(t, err)

	for i := 0; i < len(shortRows); i++ {
		assert.Equal(t, shortRows[i].Set, longRows[i].Set, "index %d", i)
	}
}
