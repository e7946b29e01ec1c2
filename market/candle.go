package market

import "time"

// Candle represents one OHLCV sample. Immutable once generated; a series
// is ordered by ascending timestamp.
type Candle struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
