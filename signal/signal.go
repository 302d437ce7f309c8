// Package signal turns classifier probabilities into trade signals
// with risk-managed entry, take-profit and stop-loss prices.
package signal

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/fxsignal/indicators"
	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/model"
	"github.com/rustyeddy/fxsignal/pkg/id"
	"github.com/rustyeddy/fxsignal/sequence"
)

const (
	// Exit distances as ATR(14) multiples; reward:risk is 2.5:1.
	tpMultiple = 2.5
	slMultiple = 1.0

	// DefaultLotSize is a placeholder. Real position sizing against
	// account equity is out of scope here.
	DefaultLotSize = 0.01

	// Validity is how long a prediction stays actionable.
	Validity = 4 * time.Hour
)

// Record is one generated prediction. Immutable once created; the
// caller decides whether it is persisted.
type Record struct {
	ID           string
	Symbol       string
	Timeframe    market.Timeframe
	Signal       sequence.Label
	Confidence   float64
	EntryPrice   float64
	TPPrice      *float64 // nil iff HOLD
	SLPrice      *float64 // nil iff HOLD
	LotSize      float64
	GeneratedAt  time.Time
	ValidUntil   time.Time
	ModelVersion string
	Algorithm    string
	Probs        model.Probs
	Status       string
}

// Options tunes Decide. Zero values fall back to defaults; Now defaults
// to the current UTC time.
type Options struct {
	Now          time.Time
	LotSize      float64
	ModelVersion string
	Algorithm    string
}

// Decide maps a probability triple and the latest indicator row to a
// prediction record. Entry is the latest close; BUY exits are
// entry+2.5*ATR / entry-1.0*ATR, SELL mirrors them, HOLD carries no
// exit prices.
func Decide(p model.Probs, latest indicators.Row, opts Options) (Record, error) {
	if !indicators.Available(latest.ATR14) {
		return Record{}, fmt.Errorf("decide %s: ATR unavailable", latest.Symbol)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	lot := opts.LotSize
	if lot == 0 {
		lot = DefaultLotSize
	}

	label, conf := p.ArgMax()
	entry := market.Round5(latest.Close)
	atr := latest.ATR14

	rec := Record{
		ID:           id.New(),
		Symbol:       latest.Symbol,
		Timeframe:    market.H1,
		Signal:       label,
		Confidence:   round4(conf),
		EntryPrice:   entry,
		LotSize:      lot,
		GeneratedAt:  now,
		ValidUntil:   now.Add(Validity),
		ModelVersion: opts.ModelVersion,
		Algorithm:    opts.Algorithm,
		Probs: model.Probs{
			Sell: round4(p.Sell),
			Hold: round4(p.Hold),
			Buy:  round4(p.Buy),
		},
		Status: "pending",
	}

	switch label {
	case sequence.Buy:
		rec.TPPrice = ptr(market.Round5(entry + atr*tpMultiple))
		rec.SLPrice = ptr(market.Round5(entry - atr*slMultiple))
	case sequence.Sell:
		rec.TPPrice = ptr(market.Round5(entry - atr*tpMultiple))
		rec.SLPrice = ptr(market.Round5(entry + atr*slMultiple))
	}
	return rec, nil
}

func ptr(v float64) *float64 { return &v }

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
