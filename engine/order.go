package engine

import "time"

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Order is one simulated position. ID, Symbol, Side, OpenPrice and
// OpenTime never change after creation; the close fields are attached
// exactly once when the order transitions open -> closed.
type Order struct {
	ID         string   `json:"id"`
	Symbol     string   `json:"symbol"`
	Side       Side     `json:"side"`
	LotSize    float64  `json:"lot_size"`
	OpenPrice  float64  `json:"open_price"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`

	OpenTime time.Time `json:"open_time"`
	Status   Status    `json:"status"`

	// Set on close.
	ClosePrice float64   `json:"close_price,omitempty"`
	CloseTime  time.Time `json:"close_time,omitzero"`
	PnL        float64   `json:"pnl,omitempty"`
}

// Account is the full per-user snapshot the engine operates on. The
// engine mutates the snapshot it is handed and the caller persists it;
// no account state lives in the engine itself. An order id appears in
// exactly one of the two collections at any time.
type Account struct {
	Balance      float64 `json:"balance"`
	OpenOrders   []Order `json:"open_orders"`
	ClosedOrders []Order `json:"closed_orders"`
}

// OrderRequest is a decoded place-order request. CurrentPrice is
// caller-supplied; the engine does not fetch prices itself.
type OrderRequest struct {
	Symbol       string   `json:"symbol"`
	Side         Side     `json:"side"`
	LotSize      float64  `json:"lot_size"`
	CurrentPrice float64  `json:"current_price"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
}

// CloseResult reports the realized outcome of closing an order.
type CloseResult struct {
	PnL     float64 `json:"pnl"`
	Balance float64 `json:"balance"`
}
