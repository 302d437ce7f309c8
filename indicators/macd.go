package indicators

import (
	"fmt"

	"github.com/rustyeddy/fxsignal/market"
)

// MACD is a streaming Moving Average Convergence Divergence indicator:
// the difference of a fast and slow EMA, with a signal EMA over the
// MACD line itself. Histogram = MACD - signal.
type MACD struct {
	fast   *ExponentialMA
	slow   *ExponentialMA
	signal *ExponentialMA
}

// NewMACD creates a MACD indicator with the standard 12/26/9 windows
// when zeros are passed.
func NewMACD(fast, slow, signal int) *MACD {
	if fast == 0 {
		fast = 12
	}
	if slow == 0 {
		slow = 26
	}
	if signal == 0 {
		signal = 9
	}
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: NewEMA(signal),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast.period, m.slow.period, m.signal.period)
}

func (m *MACD) Warmup() int {
	// The signal line needs 'signal' MACD values, and the first MACD
	// value appears once the slow EMA is ready.
	return m.slow.period + m.signal.period - 1
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
}

func (m *MACD) Update(c market.Candle) {
	m.fast.Update(c)
	m.slow.Update(c)
	if m.fast.Ready() && m.slow.Ready() {
		m.signal.updateValue(m.fast.Value() - m.slow.Value())
	}
}

// Ready reports whether the MACD line is available. SignalReady gates
// the signal line and histogram separately since it warms up later.
func (m *MACD) Ready() bool {
	return m.fast.Ready() && m.slow.Ready()
}

func (m *MACD) SignalReady() bool {
	return m.signal.Ready()
}

// Value returns the MACD line (fast EMA - slow EMA).
func (m *MACD) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.fast.Value() - m.slow.Value()
}

// Signal returns the signal line.
func (m *MACD) Signal() float64 {
	if !m.SignalReady() {
		return 0
	}
	return m.signal.Value()
}

// Histogram returns MACD - signal.
func (m *MACD) Histogram() float64 {
	if !m.SignalReady() {
		return 0
	}
	return m.Value() - m.Signal()
}
