package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/sequence"
)

// modelFile is the on-disk inference format: the exported classifier's
// final linear layer (one weight row per class over the flattened
// window) applied with softmax. Training happens elsewhere; this module
// only serves exported weights.
type modelFile struct {
	Version     string      `json:"version"`
	Algorithm   string      `json:"algorithm"`
	InputLength int         `json:"input_length"`
	Features    []string    `json:"features"`
	Weights     [][]float64 `json:"weights"` // 3 rows: sell, hold, buy
	Bias        []float64   `json:"bias"`    // 3 values
}

// linear is the loadable Classifier implementation.
type linear struct {
	length   int
	features int
	weights  [3][]float64
	bias     [3]float64
}

func (m *linear) Predict(window [][]float64) (Probs, error) {
	if err := checkWindow(window, m.length, m.features); err != nil {
		return Probs{}, err
	}

	var logits [3]float64
	for cls := 0; cls < 3; cls++ {
		sum := m.bias[cls]
		w := m.weights[cls]
		k := 0
		for _, row := range window {
			for _, v := range row {
				sum += w[k] * v
				k++
			}
		}
		logits[cls] = sum
	}
	return softmax(logits), nil
}

// ModelPath and ScalerPath name the artifact files for one
// symbol/timeframe, e.g. EURUSD_H1_model.json.
func ModelPath(dir, symbol string, tf market.Timeframe) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_model.json", symbol, tf))
}

func ScalerPath(dir, symbol string, tf market.Timeframe) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_scaler.json", symbol, tf))
}

// Load reads the classifier and its paired scaler for one
// symbol/timeframe. Absence of either file yields ErrArtifactMissing.
func Load(dir, symbol string, tf market.Timeframe) (*Artifact, error) {
	mf, err := loadModelFile(ModelPath(dir, symbol, tf))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s %s", ErrArtifactMissing, symbol, tf)
		}
		return nil, err
	}

	scaler, err := sequence.LoadScaler(ScalerPath(dir, symbol, tf))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s %s (no scaler)", ErrArtifactMissing, symbol, tf)
		}
		return nil, err
	}

	cls, err := mf.classifier()
	if err != nil {
		return nil, fmt.Errorf("model %s %s: %w", symbol, tf, err)
	}

	return &Artifact{
		Symbol:     symbol,
		Timeframe:  tf,
		Version:    mf.Version,
		Algorithm:  mf.Algorithm,
		Classifier: cls,
		Scaler:     scaler,
	}, nil
}

func loadModelFile(path string) (*modelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mf := &modelFile{}
	if err := json.Unmarshal(data, mf); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	return mf, nil
}

func (mf *modelFile) classifier() (Classifier, error) {
	if mf.InputLength <= 0 {
		return nil, fmt.Errorf("bad input_length %d", mf.InputLength)
	}
	if len(mf.Features) == 0 {
		return nil, fmt.Errorf("no feature names")
	}
	if len(mf.Weights) != 3 || len(mf.Bias) != 3 {
		return nil, fmt.Errorf("want 3 weight rows and 3 biases, got %d and %d", len(mf.Weights), len(mf.Bias))
	}

	want := mf.InputLength * len(mf.Features)
	m := &linear{length: mf.InputLength, features: len(mf.Features)}
	for i, row := range mf.Weights {
		if len(row) != want {
			return nil, fmt.Errorf("weight row %d has %d values, want %d", i, len(row), want)
		}
		m.weights[i] = row
	}
	copy(m.bias[:], mf.Bias)
	return m, nil
}
