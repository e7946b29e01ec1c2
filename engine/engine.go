// Package engine is the position ledger: given a full account snapshot
// and a requested action it validates margin, mutates the position set
// and computes realized P&L. It is pure and synchronous; the caller
// loads the snapshot from the store and persists the result.
package engine

import (
	"time"

	"github.com/rustyeddy/papertrade/internal/id"
)

// DefaultContractSize converts lots to units: one lot moves the account
// by contractSize currency units per point of price movement.
const DefaultContractSize = 1000.0

// marginRate is the fraction of notional checked (not reserved) at open.
const marginRate = 0.01

type Engine struct {
	contractSize float64

	now   func() time.Time
	newID func() string
}

func New(contractSize float64) *Engine {
	if contractSize <= 0 {
		contractSize = DefaultContractSize
	}
	return &Engine{
		contractSize: contractSize,
		now:          time.Now,
		newID:        id.New,
	}
}

// RequiredMargin returns the balance threshold for opening lots.
func (e *Engine) RequiredMargin(lots float64) float64 {
	return lots * e.contractSize * marginRate
}

// PlaceOrder validates margin and appends a new open order to the
// snapshot. The margin is checked but never deducted; balance only moves
// on close. On ErrInsufficientBalance the snapshot is untouched.
//
// Symbol validity and lot positivity are deliberately not checked here;
// the request layer owns input validation.
func (e *Engine) PlaceOrder(acct *Account, req OrderRequest) (Order, error) {
	lots := req.LotSize
	if lots == 0 {
		lots = 1
	}

	if acct.Balance < e.RequiredMargin(lots) {
		return Order{}, ErrInsufficientBalance
	}

	o := Order{
		ID:         e.newID(),
		Symbol:     req.Symbol,
		Side:       req.Side,
		LotSize:    lots,
		OpenPrice:  req.CurrentPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		OpenTime:   e.now(),
		Status:     StatusOpen,
	}
	acct.OpenOrders = append(acct.OpenOrders, o)

	return o, nil
}

// CloseOrder realizes P&L for an open order at the caller-supplied close
// price, credits the balance and moves the order to the closed list. On
// ErrOrderNotFound the snapshot is untouched.
//
// A zero close price falls back to the order's own open price, which
// realizes zero P&L. Callers that want a real result must thread the
// live price through.
func (e *Engine) CloseOrder(acct *Account, orderID string, closePrice float64) (CloseResult, error) {
	idx := -1
	for i := range acct.OpenOrders {
		if acct.OpenOrders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CloseResult{}, ErrOrderNotFound
	}

	o := acct.OpenOrders[idx]
	if closePrice == 0 {
		closePrice = o.OpenPrice
	}
	pnl := e.PnL(o.Side, o.OpenPrice, closePrice, o.LotSize)

	o.ClosePrice = closePrice
	o.CloseTime = e.now()
	o.Status = StatusClosed
	o.PnL = pnl

	acct.Balance += pnl
	acct.OpenOrders = append(acct.OpenOrders[:idx], acct.OpenOrders[idx+1:]...)
	acct.ClosedOrders = append(acct.ClosedOrders, o)

	return CloseResult{PnL: pnl, Balance: acct.Balance}, nil
}

// PnL converts a price move into account currency: buys profit when the
// price rises, sells when it falls.
func (e *Engine) PnL(side Side, openPrice, closePrice, lots float64) float64 {
	units := lots * e.contractSize
	if side == Sell {
		return (openPrice - closePrice) * units
	}
	return (closePrice - openPrice) * units
}
