package market

// InstrumentMeta holds the static simulation parameters for one symbol.
// These are configuration, not user data; the simulator owns the mutable
// per-instrument state.
type InstrumentMeta struct {
	Symbol     string
	BasePrice  float64
	MinPrice   float64
	MaxPrice   float64
	MaxMove    float64 // largest allowed move for one series step
	TickBound  float64 // bound for the small current-price walk
	BaseVolume float64
}

var Instruments = map[string]InstrumentMeta{
	"XAUUSD": {
		Symbol:     "XAUUSD",
		BasePrice:  1950.0,
		MinPrice:   1800.0,
		MaxPrice:   2200.0,
		MaxMove:    20.0,
		TickBound:  0.5,
		BaseVolume: 10000,
	},
	"EURUSD": {
		Symbol:     "EURUSD",
		BasePrice:  1.0850,
		MinPrice:   1.05,
		MaxPrice:   1.12,
		MaxMove:    0.02,
		TickBound:  0.0005,
		BaseVolume: 50000,
	},
}

// Valid reports whether symbol is one of the simulated instruments.
func Valid(symbol string) bool {
	_, ok := Instruments[symbol]
	return ok
}

// Clamp keeps price inside the instrument's valid range.
func (m InstrumentMeta) Clamp(price float64) float64 {
	if price < m.MinPrice {
		return m.MinPrice
	}
	if price > m.MaxPrice {
		return m.MaxPrice
	}
	return price
}
