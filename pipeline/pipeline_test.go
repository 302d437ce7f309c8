package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxsignal/config"
	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/model"
	"github.com/rustyeddy/fxsignal/store"
)

func testConfig(t *testing.T, symbols ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Symbols = symbols
	cfg.Model.Dir = filepath.Join(dir, "models")
	cfg.Store.Path = filepath.Join(dir, "fx.db")
	require.NoError(t, cfg.Validate())
	return cfg
}

func testPipeline(t *testing.T, cfg *config.Config) (*Pipeline, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLite(cfg.Store.Path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(cfg, nil, st), st
}

// seedCandles stores n hourly candles for a symbol with enough price
// movement for indicators and labels.
func seedCandles(t *testing.T, st *store.SQLiteStore, symbol string, n int) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(market.Series, n)
	for i := 0; i < n; i++ {
		c := 1.2 + 0.01*math.Sin(float64(i)/9.0)
		series[i] = market.Candle{
			Symbol: symbol,
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   c - 0.0003,
			High:   c + 0.0008,
			Low:    c - 0.0008,
			Close:  c,
			Volume: 120,
		}
	}
	_, err := st.UpsertCandles(context.Background(), market.H1, series)
	require.NoError(t, err)
}

// writeModel exports a zero-weight classifier for a symbol. The scaler
// comes from a TrainData run, so only predict wiring is exercised.
func writeModel(t *testing.T, dir, symbol string, bias []float64) {
	t.Helper()
	weights := make([][]float64, 3)
	for i := range weights {
		weights[i] = make([]float64, 60*8)
	}
	mf := map[string]any{
		"version":      "v1",
		"algorithm":    "linear",
		"input_length": 60,
		"features": []string{"close", "rsi_14", "macd", "macd_signal",
			"ema_20", "ema_50", "ema_200", "atr_14"},
		"weights": weights,
		"bias":    bias,
	}
	data, err := json.Marshal(mf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(model.ModelPath(dir, symbol, market.H1), data, 0644))
}

func TestTrainData(t *testing.T) {
	cfg := testConfig(t, "EURUSD", "GBPUSD")
	p, st := testPipeline(t, cfg)
	seedCandles(t, st, "EURUSD", 320)
	// GBPUSD has too little history and must be skipped, not fail the
	// batch.
	seedCandles(t, st, "GBPUSD", 50)

	sum := p.TrainData(context.Background())
	require.Len(t, sum.Outcomes, 2)

	assert.Equal(t, OK, sum.Outcomes[0].Status)
	// 320 candles, 121 complete rows (warmup 199), window length 60.
	assert.Equal(t, 61, sum.Outcomes[0].Count)

	assert.Equal(t, Skipped, sum.Outcomes[1].Status)

	ok, skipped, failed := sum.Counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, failed)

	// Scaler and windows land in the model dir under the symbol's name.
	_, err := os.Stat(model.ScalerPath(cfg.Model.Dir, "EURUSD", market.H1))
	assert.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(cfg.Model.Dir, "EURUSD_H1_windows.jsonl"))
	require.NoError(t, err)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 61, lines)
}

func TestTrainDataEmptyStore(t *testing.T) {
	cfg := testConfig(t, "EURUSD")
	p, _ := testPipeline(t, cfg)

	sum := p.TrainData(context.Background())
	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, Skipped, sum.Outcomes[0].Status)
}

func TestPredictWithoutModel(t *testing.T) {
	cfg := testConfig(t, "EURUSD")
	p, st := testPipeline(t, cfg)
	seedCandles(t, st, "EURUSD", 320)

	// A missing artifact is a skip, never a failure.
	sum, recs := p.Predict(context.Background())
	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, Skipped, sum.Outcomes[0].Status)
	assert.Equal(t, "no trained model", sum.Outcomes[0].Reason)
	assert.Empty(t, recs)
}

func TestPredictGated(t *testing.T) {
	cfg := testConfig(t, "EURUSD")
	p, st := testPipeline(t, cfg)
	seedCandles(t, st, "EURUSD", 320)

	// Fit and persist the scaler, then pair it with a zero-weight model
	// whose uniform probabilities can never clear min_confidence 0.6.
	sum := p.TrainData(context.Background())
	require.Equal(t, OK, sum.Outcomes[0].Status)
	writeModel(t, cfg.Model.Dir, "EURUSD", []float64{0, 0, 0})

	sum, recs := p.Predict(context.Background())
	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, OK, sum.Outcomes[0].Status)
	assert.Equal(t, "gated, not persisted", sum.Outcomes[0].Reason)

	require.Len(t, recs, 1)
	assert.Equal(t, "EURUSD", recs[0].Symbol)
	assert.InDelta(t, 1.0/3.0, recs[0].Confidence, 0.001)
}

func TestPredictPersists(t *testing.T) {
	cfg := testConfig(t, "EURUSD")
	p, st := testPipeline(t, cfg)
	seedCandles(t, st, "EURUSD", 320)

	sum := p.TrainData(context.Background())
	require.Equal(t, OK, sum.Outcomes[0].Status)
	// A strong buy bias forces a confident BUY past the gate.
	writeModel(t, cfg.Model.Dir, "EURUSD", []float64{0, 0, 10})

	sum, recs := p.Predict(context.Background())
	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, OK, sum.Outcomes[0].Status)
	assert.Empty(t, sum.Outcomes[0].Reason)

	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "BUY", rec.Signal.String())
	assert.Greater(t, rec.Confidence, 0.99)
	require.NotNil(t, rec.TPPrice)
	require.NotNil(t, rec.SLPrice)
	assert.Greater(t, *rec.TPPrice, rec.EntryPrice)
	assert.Less(t, *rec.SLPrice, rec.EntryPrice)

	// Second run hits the primary-key constraint only if the first one
	// actually persisted; fresh IDs make it insert cleanly again.
	sum, _ = p.Predict(context.Background())
	assert.Equal(t, OK, sum.Outcomes[0].Status)
}

func TestPredictBatchIsolation(t *testing.T) {
	// One symbol with no data must not stop the other from predicting.
	cfg := testConfig(t, "USDJPY", "EURUSD")
	p, st := testPipeline(t, cfg)
	seedCandles(t, st, "EURUSD", 320)

	sum := p.TrainData(context.Background())
	require.Len(t, sum.Outcomes, 2)
	writeModel(t, cfg.Model.Dir, "EURUSD", []float64{0, 0, 10})

	sum, recs := p.Predict(context.Background())
	require.Len(t, sum.Outcomes, 2)
	assert.Equal(t, Skipped, sum.Outcomes[0].Status) // USDJPY, no model
	assert.Equal(t, OK, sum.Outcomes[1].Status)
	require.Len(t, recs, 1)
	assert.Equal(t, "EURUSD", recs[0].Symbol)
}

func TestSummaryCounts(t *testing.T) {
	var sum Summary
	sum.add(Outcome{Symbol: "A", Status: OK})
	sum.add(Outcome{Symbol: "B", Status: Skipped, Reason: "x"})
	sum.add(Outcome{Symbol: "C", Status: Failed, Reason: "y"})
	sum.add(Outcome{Symbol: "D", Status: OK})

	ok, skipped, failed := sum.Counts()
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "failed", Failed.String())
}
