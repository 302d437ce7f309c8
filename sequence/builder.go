package sequence

import (
	"errors"
	"time"

	"github.com/rustyeddy/fxsignal/indicators"
)

// DefaultLength is the model's input window length.
const DefaultLength = 60

// minExtra is how many labeled rows beyond the window length training
// requires to be worth running at all.
const minExtra = 10

// ErrInsufficientData is returned when too few complete rows remain to
// build windows.
var ErrInsufficientData = errors.New("insufficient data for sequences")

// FeatureNames lists the model's feature columns in order.
var FeatureNames = []string{
	"close", "rsi_14", "macd", "macd_signal",
	"ema_20", "ema_50", "ema_200", "atr_14",
}

// Features extracts the model feature vector from one row.
func Features(r indicators.Row) []float64 {
	return []float64{
		r.Close, r.RSI14, r.MACD, r.MACDSignal,
		r.EMA20, r.EMA50, r.EMA200, r.ATR14,
	}
}

// Label is the training target class. The numeric values match the
// classifier's output ordering.
type Label int

const (
	Sell Label = 0
	Hold Label = 1
	Buy  Label = 2
)

func (l Label) String() string {
	switch l {
	case Sell:
		return "SELL"
	case Hold:
		return "HOLD"
	case Buy:
		return "BUY"
	}
	return "UNKNOWN"
}

// labelThreshold is the return magnitude separating BUY/SELL from HOLD.
const labelThreshold = 0.001 // 0.1%

// labelFor classifies the most recent close-to-close return.
func labelFor(prevClose, close float64) Label {
	change := (close - prevClose) / prevClose
	switch {
	case change > labelThreshold:
		return Buy
	case change < -labelThreshold:
		return Sell
	default:
		return Hold
	}
}

// Window is one model input: a fixed-length sequence of scaled feature
// vectors and its target label.
type Window struct {
	Features [][]float64
	Label    Label
	// End is the timestamp of the candle whose transition produced the
	// label.
	End time.Time
}

// valid filters a series down to rows whose indicator set is fully
// available, preserving original order.
func valid(rows []indicators.Row) []indicators.Row {
	out := make([]indicators.Row, 0, len(rows))
	for _, r := range rows {
		if r.Complete() {
			out = append(out, r)
		}
	}
	return out
}

// Build slides a window of the given length over the complete rows of
// the series and labels each window from the close-to-close return at
// its trailing edge. For N valid rows it produces exactly N-length
// windows.
//
// The label compares close(i) with close(i-1) for the row just past the
// window, i.e. the move that produced the most recent observed candle.
// It is a proxy target, not a forecast of an unseen future candle.
//
// The scaler must already be fitted; Build never fits it. Use Fit on
// the matrix from TrainingMatrix first during training.
func Build(rows []indicators.Row, length int, scaler *MinMaxScaler) ([]Window, error) {
	if length <= 0 {
		length = DefaultLength
	}
	kept := valid(rows)
	if len(kept) < length+minExtra {
		return nil, ErrInsufficientData
	}

	matrix := TrainingMatrix(kept)
	scaled, err := scaler.Transform(matrix)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(kept)-length)
	for i := length; i < len(kept); i++ {
		windows = append(windows, Window{
			Features: scaled[i-length : i],
			Label:    labelFor(kept[i-1].Close, kept[i].Close),
			End:      kept[i].Time,
		})
	}
	return windows, nil
}

// FitScaler fits a fresh scaler on every complete row of the series.
// Training calls this once and persists the result; inference loads the
// persisted scaler and never refits.
func FitScaler(rows []indicators.Row) (*MinMaxScaler, error) {
	kept := valid(rows)
	if len(kept) == 0 {
		return nil, ErrInsufficientData
	}
	s := &MinMaxScaler{Features: FeatureNames}
	if err := s.Fit(TrainingMatrix(kept)); err != nil {
		return nil, err
	}
	return s, nil
}

// TrainingMatrix builds the raw (unscaled) feature matrix from rows
// that already passed the completeness filter.
func TrainingMatrix(rows []indicators.Row) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, r := range rows {
		matrix[i] = Features(r)
	}
	return matrix
}

// LastWindow scales the trailing 'length' complete rows for inference
// and returns them with the latest row for price/ATR reference.
func LastWindow(rows []indicators.Row, length int, scaler *MinMaxScaler) ([][]float64, indicators.Row, error) {
	if length <= 0 {
		length = DefaultLength
	}
	kept := valid(rows)
	if len(kept) < length {
		return nil, indicators.Row{}, ErrInsufficientData
	}

	tail := kept[len(kept)-length:]
	scaled, err := scaler.Transform(TrainingMatrix(tail))
	if err != nil {
		return nil, indicators.Row{}, err
	}
	return scaled, kept[len(kept)-1], nil
}
