package market

import "fmt"

// Instrument holds per-symbol metadata needed to decode provider data.
type Instrument struct {
	Symbol string
	// PriceDivisor converts the provider's integer prices to quote
	// currency: 1000 for JPY-quoted pairs, 100000 otherwise.
	PriceDivisor float64
	PipLocation  int
}

// Instruments is the supported symbol table.
var Instruments = map[string]Instrument{
	"EURUSD": {Symbol: "EURUSD", PriceDivisor: 100000, PipLocation: -4},
	"GBPUSD": {Symbol: "GBPUSD", PriceDivisor: 100000, PipLocation: -4},
	"USDJPY": {Symbol: "USDJPY", PriceDivisor: 1000, PipLocation: -2},
	"AUDUSD": {Symbol: "AUDUSD", PriceDivisor: 100000, PipLocation: -4},
	"USDCHF": {Symbol: "USDCHF", PriceDivisor: 100000, PipLocation: -4},
	"USDCAD": {Symbol: "USDCAD", PriceDivisor: 100000, PipLocation: -4},
	"NZDUSD": {Symbol: "NZDUSD", PriceDivisor: 100000, PipLocation: -4},
	"EURGBP": {Symbol: "EURGBP", PriceDivisor: 100000, PipLocation: -4},
	"EURJPY": {Symbol: "EURJPY", PriceDivisor: 1000, PipLocation: -2},
	"GBPJPY": {Symbol: "GBPJPY", PriceDivisor: 1000, PipLocation: -2},
	"XAUUSD": {Symbol: "XAUUSD", PriceDivisor: 100000, PipLocation: -4},
}

// Lookup returns the instrument metadata for symbol.
func Lookup(symbol string) (Instrument, error) {
	in, ok := Instruments[symbol]
	if !ok {
		return Instrument{}, fmt.Errorf("unknown instrument: %s", symbol)
	}
	return in, nil
}
