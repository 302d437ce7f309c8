package indicators

import (
	"fmt"

	"github.com/rustyeddy/fxsignal/market"
)

// RSI is a streaming Relative Strength Index using Wilder smoothing.
// The averages are seeded with the simple mean of the first 'period'
// gains and losses, then smoothed.
type RSI struct {
	period      int
	avgGain     float64
	avgLoss     float64
	gainSum     float64
	lossSum     float64
	count       int
	prevClose   float64
	hasPrevious bool
}

// NewRSI creates a Relative Strength Index with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	// Need period+1 candles to observe 'period' closes-to-close changes
	return r.period + 1
}

func (r *RSI) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.gainSum = 0
	r.lossSum = 0
	r.count = 0
	r.hasPrevious = false
}

func (r *RSI) Update(c market.Candle) {
	if !r.hasPrevious {
		r.prevClose = c.Close
		r.hasPrevious = true
		return
	}

	change := c.Close - r.prevClose
	r.prevClose = c.Close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count < r.period {
		r.gainSum += gain
		r.lossSum += loss
		r.count++
		if r.count == r.period {
			r.avgGain = r.gainSum / float64(r.period)
			r.avgLoss = r.lossSum / float64(r.period)
		}
	} else {
		p := float64(r.period)
		r.avgGain = (r.avgGain*(p-1) + gain) / p
		r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	}
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
