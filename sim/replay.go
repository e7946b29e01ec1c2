package sim

import (
	"hash/fnv"
	"time"

	"github.com/rustyeddy/papertrade/market"
)

// replayLayouts are the timestamp formats accepted for date-replay
// queries, most specific first.
var replayLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PointForDate returns a single candle for an arbitrary historical date.
// Unlike the rest of the simulator this is deterministic: the date string
// seeds the price, so replaying the same date always yields the same
// candle. The OHLC shape is a fixed offset pattern around the derived
// price.
func (s *Simulator) PointForDate(symbol, date string) market.Candle {
	meta, ok := market.Instruments[symbol]
	if !ok {
		meta = market.InstrumentMeta{
			BasePrice: defaultBasePrice,
			MinPrice:  defaultBasePrice,
			MaxPrice:  defaultBasePrice,
		}
	}

	ts, err := parseReplayDate(date)
	if err != nil {
		// Best-effort fallback, stamped with the server clock since the
		// input never parsed.
		return market.Candle{
			Time:  s.now(),
			Open:  round4(meta.BasePrice),
			High:  round4(meta.BasePrice + 1),
			Low:   round4(meta.BasePrice - 1),
			Close: round4(meta.BasePrice),
		}
	}

	// Stable hash of the raw date string, mapped into [0,1), then into
	// the instrument's valid range.
	h := fnv.New32a()
	h.Write([]byte(date))
	frac := float64(h.Sum32()%10000) / 10000
	price := meta.MinPrice + frac*(meta.MaxPrice-meta.MinPrice)

	return market.Candle{
		Time:  ts,
		Open:  round4(price - 0.5),
		High:  round4(price + 1.2),
		Low:   round4(price - 1.2),
		Close: round4(price),
	}
}

func parseReplayDate(date string) (time.Time, error) {
	var firstErr error
	for _, layout := range replayLayouts {
		ts, err := time.Parse(layout, date)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
