package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rustyeddy/fxsignal/indicators"
	"github.com/rustyeddy/fxsignal/model"
	"github.com/rustyeddy/fxsignal/sequence"
)

// TrainData prepares training inputs for every configured symbol: it
// computes indicators over the stored series, fits and persists the
// scaler, and exports the labeled windows for the external trainer.
// The persisted scaler is the one inference must reuse.
func (p *Pipeline) TrainData(ctx context.Context) Summary {
	var sum Summary
	for _, symbol := range p.cfg.Symbols {
		sum.add(p.trainDataSymbol(ctx, symbol))
	}
	sum.log("traindata")
	return sum
}

func (p *Pipeline) trainDataSymbol(ctx context.Context, symbol string) Outcome {
	candles, err := p.store.Candles(ctx, symbol, p.tf)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("load candles: %v", err)}
	}

	rows, err := indicators.Compute(candles)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			return Outcome{Symbol: symbol, Status: Skipped, Reason: "not enough candles for indicators"}
		}
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}
	}

	scaler, err := sequence.FitScaler(rows)
	if err != nil {
		return Outcome{Symbol: symbol, Status: Skipped, Reason: "no complete rows"}
	}

	windows, err := sequence.Build(rows, p.cfg.Model.SequenceLength, scaler)
	if err != nil {
		if errors.Is(err, sequence.ErrInsufficientData) {
			return Outcome{Symbol: symbol, Status: Skipped, Reason: "not enough rows for sequences"}
		}
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}
	}

	if err := os.MkdirAll(p.cfg.Model.Dir, 0o755); err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: err.Error()}
	}
	if err := scaler.Save(model.ScalerPath(p.cfg.Model.Dir, symbol, p.tf)); err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("save scaler: %v", err)}
	}
	if err := writeWindows(p.windowsPath(symbol), windows); err != nil {
		return Outcome{Symbol: symbol, Status: Failed, Reason: fmt.Sprintf("write windows: %v", err)}
	}

	return Outcome{Symbol: symbol, Status: OK, Count: len(windows)}
}

func (p *Pipeline) windowsPath(symbol string) string {
	return filepath.Join(p.cfg.Model.Dir, fmt.Sprintf("%s_%s_windows.jsonl", symbol, p.tf))
}

// windowRecord is one exported training example.
type windowRecord struct {
	Features [][]float64 `json:"features"`
	Label    int         `json:"label"`
	End      string      `json:"end"`
}

// writeWindows exports windows as JSON lines, one example per line, so
// the external trainer can stream them.
func writeWindows(path string, windows []sequence.Window) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, w := range windows {
		rec := windowRecord{
			Features: w.Features,
			Label:    int(w.Label),
			End:      w.End.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
