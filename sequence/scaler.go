// Package sequence turns indicator-augmented candle series into
// fixed-length, scaled, labeled feature windows for model training and
// inference.
package sequence

import (
	"encoding/json"
	"fmt"
	"os"
)

// MinMaxScaler normalizes each feature column to [0, 1] using the
// per-column min/max observed at fit time. A scaler is fit exactly once
// on the training matrix and then reused unchanged at inference;
// training and inference must never fit independent scalers.
type MinMaxScaler struct {
	Features []string  `json:"features"`
	Min      []float64 `json:"min"`
	Max      []float64 `json:"max"`
}

// Fit computes per-column bounds from the full training matrix.
func (s *MinMaxScaler) Fit(matrix [][]float64) error {
	if len(matrix) == 0 {
		return fmt.Errorf("fit scaler: empty matrix")
	}
	cols := len(matrix[0])
	s.Min = make([]float64, cols)
	s.Max = make([]float64, cols)
	copy(s.Min, matrix[0])
	copy(s.Max, matrix[0])

	for _, row := range matrix {
		if len(row) != cols {
			return fmt.Errorf("fit scaler: ragged matrix")
		}
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	return nil
}

// Transform scales a matrix into [0, 1] column-wise. A constant column
// maps to zero.
func (s *MinMaxScaler) Transform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Min) {
			return nil, fmt.Errorf("transform: row has %d features, scaler has %d", len(row), len(s.Min))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Min[j]) / s.span(j)
		}
		out[i] = scaled
	}
	return out, nil
}

// Inverse maps a scaled matrix back to original units.
func (s *MinMaxScaler) Inverse(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Min) {
			return nil, fmt.Errorf("inverse: row has %d features, scaler has %d", len(row), len(s.Min))
		}
		orig := make([]float64, len(row))
		for j, v := range row {
			orig[j] = v*s.span(j) + s.Min[j]
		}
		out[i] = orig
	}
	return out, nil
}

func (s *MinMaxScaler) span(j int) float64 {
	d := s.Max[j] - s.Min[j]
	if d == 0 {
		return 1
	}
	return d
}

// Save writes the fitted scaler to a JSON file.
func (s *MinMaxScaler) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scaler: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scaler: %w", err)
	}
	return nil
}

// LoadScaler reads a fitted scaler from a JSON file and checks it
// against the expected feature layout.
func LoadScaler(path string) (*MinMaxScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler: %w", err)
	}
	s := &MinMaxScaler{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scaler: %w", err)
	}
	if len(s.Min) != len(FeatureNames) || len(s.Max) != len(FeatureNames) {
		return nil, fmt.Errorf("scaler has %d features, want %d", len(s.Min), len(FeatureNames))
	}
	return s, nil
}
