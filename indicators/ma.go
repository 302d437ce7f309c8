package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/fxsignal/market"
)

// SimpleMA is a streaming Simple Moving Average over close prices.
type SimpleMA struct {
	period int
	closes []float64
}

// NewMA creates a Simple Moving Average with the given period.
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.closes = m.closes[:0]
}

func (m *SimpleMA) Update(c market.Candle) {
	m.closes = append(m.closes, c.Close)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, v := range m.closes {
		sum += v
	}
	return sum / float64(len(m.closes))
}

// StdDev returns the population standard deviation of the window.
func (m *SimpleMA) StdDev() float64 {
	if !m.Ready() {
		return 0
	}
	mean := m.Value()
	ss := 0.0
	for _, v := range m.closes {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(m.closes)))
}

// ExponentialMA is a streaming Exponential Moving Average over close
// prices, seeded with the SMA of the first 'period' values.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates an Exponential Moving Average with the given period.
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(c market.Candle) {
	e.updateValue(c.Close)
}

// updateValue lets derived series (like a MACD signal line) feed raw
// values instead of candle closes.
func (e *ExponentialMA) updateValue(v float64) {
	if e.count < e.period {
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		e.ema = (v-e.ema)*e.multiplier + e.ema
	}
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
