// Package model defines the classifier boundary: an opaque sequence
// classifier, its probability output, and the versioned artifact handle
// that pairs a trained classifier with its fitted scaler.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/sequence"
)

// ErrArtifactMissing means no trained model or scaler exists for a
// symbol/timeframe. Callers treat it as "no prediction available", not
// a failure.
var ErrArtifactMissing = errors.New("model artifact missing")

// Probs is the classifier's per-class probability triple.
type Probs struct {
	Sell float64
	Hold float64
	Buy  float64
}

// ArgMax returns the most probable class and its probability.
func (p Probs) ArgMax() (sequence.Label, float64) {
	label, conf := sequence.Sell, p.Sell
	if p.Hold > conf {
		label, conf = sequence.Hold, p.Hold
	}
	if p.Buy > conf {
		label, conf = sequence.Buy, p.Buy
	}
	return label, conf
}

// Classifier maps one scaled feature window to class probabilities.
// Implementations must be safe for concurrent read-only use; a loaded
// classifier is never mutated, only replaced.
type Classifier interface {
	Predict(window [][]float64) (Probs, error)
}

// Artifact is an immutable, swappable model unit: the classifier and
// the scaler it was trained with, loaded together and shared read-only
// across inference calls.
type Artifact struct {
	Symbol     string
	Timeframe  market.Timeframe
	Version    string
	Algorithm  string
	Classifier Classifier
	Scaler     *sequence.MinMaxScaler
}

// softmax converts logits into probabilities, shifted for stability.
func softmax(logits [3]float64) Probs {
	max := math.Max(logits[0], math.Max(logits[1], logits[2]))
	var exps [3]float64
	sum := 0.0
	for i, l := range logits {
		exps[i] = math.Exp(l - max)
		sum += exps[i]
	}
	return Probs{
		Sell: exps[0] / sum,
		Hold: exps[1] / sum,
		Buy:  exps[2] / sum,
	}
}

// checkWindow validates a window's shape against the expected input.
func checkWindow(window [][]float64, length, features int) error {
	if len(window) != length {
		return fmt.Errorf("window has %d rows, model expects %d", len(window), length)
	}
	for _, row := range window {
		if len(row) != features {
			return fmt.Errorf("window row has %d features, model expects %d", len(row), features)
		}
	}
	return nil
}
