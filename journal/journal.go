package journal

import "time"

// TradeRecord is one closed paper trade. Records are append-only; the
// account snapshot in the store stays the source of truth, the journal
// is for offline review.
type TradeRecord struct {
	OrderID    string
	Username   string
	Symbol     string
	Side       string
	LotSize    float64
	OpenPrice  float64
	ClosePrice float64
	OpenTime   time.Time
	CloseTime  time.Time
	PnL        float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Nop discards records, for servers running without a journal.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) Close() error                  { return nil }
