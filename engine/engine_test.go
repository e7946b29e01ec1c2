package engine

import (
	"math"
	"testing"
)

func newAccount(balance float64) *Account {
	return &Account{
		Balance:      balance,
		OpenOrders:   []Order{},
		ClosedOrders: []Order{},
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPlaceOrderInsufficientBalance(t *testing.T) {
	e := New(1000)
	acct := newAccount(100)

	// required margin = 50 * 1000 * 0.01 = 500 > 100
	_, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "XAUUSD",
		Side:         Buy,
		LotSize:      50,
		CurrentPrice: 1950,
	})
	if err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if len(acct.OpenOrders) != 0 {
		t.Fatalf("rejected order must not mutate open orders, got %d", len(acct.OpenOrders))
	}
	if !approxEqual(acct.Balance, 100, 1e-9) {
		t.Fatalf("rejected order must not touch balance, got %.2f", acct.Balance)
	}
}

func TestPlaceOrderDefaultsToOneLot(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	o, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "EURUSD",
		Side:         Sell,
		CurrentPrice: 1.0850,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if o.LotSize != 1 {
		t.Fatalf("expected lot size 1, got %.2f", o.LotSize)
	}
	if o.Status != StatusOpen {
		t.Fatalf("expected open status, got %s", o.Status)
	}
	if o.ID == "" {
		t.Fatal("expected a generated order id")
	}
	if o.OpenTime.IsZero() {
		t.Fatal("expected an open time")
	}
	if len(acct.OpenOrders) != 1 {
		t.Fatalf("expected 1 open order, got %d", len(acct.OpenOrders))
	}
}

func TestPlaceOrderNoMarginReservation(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	_, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "XAUUSD",
		Side:         Buy,
		LotSize:      5,
		CurrentPrice: 1950,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// Margin is checked, never deducted.
	if !approxEqual(acct.Balance, 10000, 1e-9) {
		t.Fatalf("balance must not change at open, got %.2f", acct.Balance)
	}
}

func TestCloseOrderNotFound(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	_, err := e.CloseOrder(acct, "no-such-order", 1950)
	if err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if !approxEqual(acct.Balance, 10000, 1e-9) || len(acct.ClosedOrders) != 0 {
		t.Fatal("failed close must leave account unchanged")
	}
}

func TestCloseOrderRoundTripZeroPnL(t *testing.T) {
	for _, side := range []Side{Buy, Sell} {
		e := New(1000)
		acct := newAccount(10000)

		o, err := e.PlaceOrder(acct, OrderRequest{
			Symbol:       "XAUUSD",
			Side:         side,
			LotSize:      2,
			CurrentPrice: 1950,
		})
		if err != nil {
			t.Fatalf("place order (%s): %v", side, err)
		}

		res, err := e.CloseOrder(acct, o.ID, 1950)
		if err != nil {
			t.Fatalf("close order (%s): %v", side, err)
		}

		if !approxEqual(res.PnL, 0, 1e-9) {
			t.Fatalf("same-price round trip (%s): expected pnl 0, got %.4f", side, res.PnL)
		}
		if !approxEqual(res.Balance, 10000, 1e-9) {
			t.Fatalf("same-price round trip (%s): expected unchanged balance, got %.4f", side, res.Balance)
		}
	}
}

func TestCloseOrderBuyProfit(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	o, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "XAUUSD",
		Side:         Buy,
		LotSize:      2,
		CurrentPrice: 1950,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	res, err := e.CloseOrder(acct, o.ID, 1960)
	if err != nil {
		t.Fatalf("close order: %v", err)
	}

	// (1960-1950) * 2 * 1000
	if !approxEqual(res.PnL, 20000, 1e-9) {
		t.Fatalf("expected pnl 20000, got %.4f", res.PnL)
	}
	if !approxEqual(res.Balance, 30000, 1e-9) {
		t.Fatalf("expected balance 30000, got %.4f", res.Balance)
	}
}

func TestCloseOrderSellProfit(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	o, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "EURUSD",
		Side:         Sell,
		LotSize:      1,
		CurrentPrice: 1.0850,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	res, err := e.CloseOrder(acct, o.ID, 1.0800)
	if err != nil {
		t.Fatalf("close order: %v", err)
	}

	// (1.0850-1.0800) * 1 * 1000
	if !approxEqual(res.PnL, 5.0, 1e-9) {
		t.Fatalf("expected pnl 5.0, got %.6f", res.PnL)
	}
	if !approxEqual(res.Balance, 10005, 1e-9) {
		t.Fatalf("expected balance 10005, got %.6f", res.Balance)
	}
}

func TestCloseOrderMovesOrderExactlyOnce(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	o, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "XAUUSD",
		Side:         Buy,
		LotSize:      1,
		CurrentPrice: 1950,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := e.CloseOrder(acct, o.ID, 1955); err != nil {
		t.Fatalf("close order: %v", err)
	}

	for _, open := range acct.OpenOrders {
		if open.ID == o.ID {
			t.Fatal("closed order still present in open orders")
		}
	}

	seen := 0
	for _, closed := range acct.ClosedOrders {
		if closed.ID == o.ID {
			seen++
			if closed.Status != StatusClosed {
				t.Fatalf("expected closed status, got %s", closed.Status)
			}
			if closed.CloseTime.IsZero() {
				t.Fatal("expected a close time")
			}
		}
	}
	if seen != 1 {
		t.Fatalf("expected order id exactly once in closed orders, got %d", seen)
	}

	// A second close of the same id must fail.
	if _, err := e.CloseOrder(acct, o.ID, 1955); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound on double close, got %v", err)
	}
}

func TestCloseOrderZeroPriceFallsBackToOpen(t *testing.T) {
	e := New(1000)
	acct := newAccount(10000)

	o, err := e.PlaceOrder(acct, OrderRequest{
		Symbol:       "XAUUSD",
		Side:         Buy,
		LotSize:      3,
		CurrentPrice: 1950,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	res, err := e.CloseOrder(acct, o.ID, 0)
	if err != nil {
		t.Fatalf("close order: %v", err)
	}

	if !approxEqual(res.PnL, 0, 1e-9) {
		t.Fatalf("zero close price must realize zero pnl, got %.4f", res.PnL)
	}
	if acct.ClosedOrders[0].ClosePrice != 1950 {
		t.Fatalf("expected close price 1950, got %.4f", acct.ClosedOrders[0].ClosePrice)
	}
}

func TestOrderIDsAreUnique(t *testing.T) {
	e := New(1000)
	acct := newAccount(1e9)

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		o, err := e.PlaceOrder(acct, OrderRequest{
			Symbol:       "EURUSD",
			Side:         Buy,
			LotSize:      1,
			CurrentPrice: 1.0850,
		})
		if err != nil {
			t.Fatalf("place order %d: %v", i, err)
		}
		if ids[o.ID] {
			t.Fatalf("duplicate order id %s", o.ID)
		}
		ids[o.ID] = true
	}
}
