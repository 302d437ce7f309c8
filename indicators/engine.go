package indicators

import (
	"github.com/rustyeddy/fxsignal/market"
)

const bollingerK = 2.0

// Compute attaches an indicator set to every candle in the series:
// RSI(14), MACD(12,26,9), Bollinger Bands (20, 2σ), EMA 20/50/200 and
// ATR(14). Values inside an indicator's warmup stay NaN; the series
// length is always preserved.
//
// Below MinCandles the candles are returned with no indicators
// attached alongside ErrInsufficientData.
func Compute(series market.Series) ([]Row, error) {
	rows := make([]Row, len(series))
	for i, c := range series {
		rows[i] = Row{Candle: c, Set: emptySet()}
	}
	if len(series) < MinCandles {
		return rows, ErrInsufficientData
	}

	rsi := NewRSI(14)
	macd := NewMACD(12, 26, 9)
	bb := NewMA(20)
	ema20 := NewEMA(20)
	ema50 := NewEMA(50)
	ema200 := NewEMA(200)
	atr := NewATR(14)

	for i, c := range series {
		rsi.Update(c)
		macd.Update(c)
		bb.Update(c)
		ema20.Update(c)
		ema50.Update(c)
		ema200.Update(c)
		atr.Update(c)

		set := &rows[i].Set
		if rsi.Ready() {
			set.RSI14 = rsi.Value()
		}
		if macd.Ready() {
			set.MACD = macd.Value()
		}
		if macd.SignalReady() {
			set.MACDSignal = macd.Signal()
			set.MACDHist = macd.Histogram()
		}
		if bb.Ready() {
			mid := bb.Value()
			dev := bollingerK * bb.StdDev()
			set.BBMiddle = mid
			set.BBUpper = mid + dev
			set.BBLower = mid - dev
		}
		if ema20.Ready() {
			set.EMA20 = ema20.Value()
		}
		if ema50.Ready() {
			set.EMA50 = ema50.Value()
		}
		if ema200.Ready() {
			set.EMA200 = ema200.Value()
		}
		if atr.Ready() {
			set.ATR14 = atr.Value()
		}
	}

	return rows, nil
}
