// Package pipeline orchestrates the per-symbol stages: syncing candles
// from the provider, preparing training data, and generating
// predictions. Every stage reports a typed outcome per symbol; no
// single symbol's failure may abort a batch run.
package pipeline

import (
	"log/slog"

	"github.com/rustyeddy/fxsignal/config"
	"github.com/rustyeddy/fxsignal/dukas"
	"github.com/rustyeddy/fxsignal/market"
	"github.com/rustyeddy/fxsignal/store"
)

// Status classifies one symbol's outcome in a batch.
type Status int

const (
	OK Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is one symbol's result in a batch run.
type Outcome struct {
	Symbol string
	Status Status
	Reason string // set when skipped or failed
	Count  int    // stage-specific: candles synced, windows built, ...
}

// Summary aggregates a batch run.
type Summary struct {
	Outcomes []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Counts returns how many symbols succeeded, were skipped, and failed.
func (s Summary) Counts() (ok, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch o.Status {
		case OK:
			ok++
		case Skipped:
			skipped++
		case Failed:
			failed++
		}
	}
	return
}

func (s Summary) log(stage string) {
	ok, skipped, failed := s.Counts()
	slog.Info(stage+" done", "ok", ok, "skipped", skipped, "failed", failed)
	for _, o := range s.Outcomes {
		if o.Status != OK {
			slog.Info(stage+" outcome", "symbol", o.Symbol, "status", o.Status.String(), "reason", o.Reason)
		}
	}
}

// Pipeline wires the provider client, the store and the configuration.
type Pipeline struct {
	cfg    *config.Config
	client *dukas.Client
	store  store.Store
	tf     market.Timeframe
}

// New builds a pipeline from a validated config and opened store.
func New(cfg *config.Config, client *dukas.Client, st store.Store) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		client: client,
		store:  st,
		tf:     market.Timeframe(cfg.Timeframe),
	}
}
