package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/fxsignal/indicators"
	"github.com/rustyeddy/fxsignal/model"
	"github.com/rustyeddy/fxsignal/sequence"
	"github.com/rustyeddy/fxsignal/signal"
)

// Predict generates one prediction per configured symbol. A record is
// persisted only when it clears the confidence threshold and is not a
// HOLD; gated records are still computed and logged.
func (p *Pipeline) Predict(ctx context.Context) (Summary, []signal.Record) {
	var (
		sum  Summary
		recs []signal.Record
	)
	for _, symbol := range p.cfg.Symbols {
		outcome, rec := p.predictSymbol(ctx, symbol)
		sum.add(outcome)
		if outcome.Status != Failed && rec.ID != "" {
			recs = append(recs, rec)
		}
	}
	sum.log("predict")
	return sum, recs
}

func (p *Pipeline) predictSymbol(ctx context.Context, symbol string) (Outcome, signal.Record) {
	art, err := model.Load(p.cfg.Model.Dir, symbol, p.tf)
	if err != nil {
		if errors.Is(err, model.ErrArtifactMissing) {
			return Outcome{Symbol: symbol, Status: Skipped, Reason: "no trained model"}, signal.Record{}
		}
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}, signal.Record{}
	}

	candles, err := p.store.Candles(ctx, symbol, p.tf)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("load candles: %v", err)}, signal.Record{}
	}

	rows, err := indicators.Compute(candles)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			return Outcome{Symbol: symbol, Status: Skipped, Reason: "not enough candles for indicators"}, signal.Record{}
		}
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}, signal.Record{}
	}

	window, latest, err := sequence.LastWindow(rows, p.cfg.Model.SequenceLength, art.Scaler)
	if err != nil {
		if errors.Is(err, sequence.ErrInsufficientData) {
			return Outcome{Symbol: symbol, Status: Skipped, Reason: "not enough rows for a window"}, signal.Record{}
		}
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}, signal.Record{}
	}

	probs, err := art.Classifier.Predict(window)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("classify: %v", err)}, signal.Record{}
	}

	rec, err := signal.Decide(probs, latest, signal.Options{
		ModelVersion: art.Version,
		Algorithm:    art.Algorithm,
	})
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}, signal.Record{}
	}

	slog.Info("prediction",
		"symbol", symbol,
		"signal", rec.Signal.String(),
		"confidence", rec.Confidence,
		"entry", rec.EntryPrice)

	// Persistence gate is caller policy: low-confidence and HOLD
	// records are returned but never stored.
	if rec.Confidence < p.cfg.Model.MinConfidence || rec.Signal == sequence.Hold {
		return Outcome{Symbol: symbol, Status: OK, Reason: "gated, not persisted", Count: 1}, rec
	}

	if err := p.store.InsertPrediction(ctx, rec); err != nil {
		// A store write failure must not abort the batch.
		slog.Error("save prediction", "symbol", symbol, "error", err)
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("save prediction: %v", err)}, rec
	}
	return Outcome{Symbol: symbol, Status: OK, Count: 1}, rec
}
