package market

// Tick is a single quote event inside an hour, as decoded from the
// provider's fixed-width record format. Prices and volumes are the raw
// provider integers; divide by the instrument's price divisor to get
// quote-currency prices. Ticks are transient: they exist only long
// enough to aggregate a candle.
type Tick struct {
	Offset int32 // milliseconds since the start of the hour
	Ask    int32
	Bid    int32
	AskVol int32
	BidVol int32
}

// Mid returns the mid-price in quote currency for the given divisor.
func (t Tick) Mid(divisor float64) float64 {
	return (float64(t.Ask) + float64(t.Bid)) / 2 / divisor
}

// Volume returns the combined ask+bid volume of the tick.
func (t Tick) Volume() float64 {
	return float64(t.AskVol) + float64(t.BidVol)
}
