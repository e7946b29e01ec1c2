package market

import "time"

// Interval is a candle granularity.
type Interval string

const (
	H1 Interval = "1h"
	D1 Interval = "1d"
)

// Duration returns the wall-clock length of one interval. Unknown
// intervals fall back to one hour.
func (i Interval) Duration() time.Duration {
	if i == D1 {
		return 24 * time.Hour
	}
	return time.Hour
}

// Period is a requested series length.
type Period string

const (
	P1D  Period = "1d"
	P5D  Period = "5d"
	P1Mo Period = "1mo"
	P3Mo Period = "3mo"
)

// Points maps a period/interval pair to the number of candles to
// generate. Unrecognized values fall through to the widest bucket, so a
// sloppy query still gets a usable series.
func Points(period Period, interval Interval) int {
	if interval == H1 {
		switch period {
		case P1D:
			return 24
		case P5D:
			return 24 * 5
		default: // 1mo
			return 24 * 30
		}
	}
	// daily candles
	if period == P1Mo {
		return 30
	}
	return 90 // 3mo
}
