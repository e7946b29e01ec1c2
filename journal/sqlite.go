package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(order_id, username, symbol, side, lot_size, open_price, close_price, open_time, close_time, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.OrderID, t.Username, t.Symbol, t.Side, t.LotSize,
		t.OpenPrice, t.ClosePrice, t.OpenTime, t.CloseTime, t.PnL,
	)
	return err
}

// ListTradesByUser returns a user's closed trades in close order.
func (j *SQLite) ListTradesByUser(username string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, username, symbol, side, lot_size, open_price, close_price, open_time, close_time, pnl
		FROM trades
		WHERE username = ?
		ORDER BY close_time ASC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, username, symbol, side, lot_size, open_price, close_price, open_time, close_time, pnl
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.Username,
			&rec.Symbol,
			&rec.Side,
			&rec.LotSize,
			&rec.OpenPrice,
			&rec.ClosePrice,
			&rec.OpenTime,
			&rec.CloseTime,
			&rec.PnL,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single record by order id.
func (j *SQLite) GetTrade(orderID string) (TradeRecord, error) {
	var rec TradeRecord
	row := j.db.QueryRow(`
		SELECT order_id, username, symbol, side, lot_size, open_price, close_price, open_time, close_time, pnl
		FROM trades
		WHERE order_id = ?`, orderID)

	err := row.Scan(
		&rec.OrderID,
		&rec.Username,
		&rec.Symbol,
		&rec.Side,
		&rec.LotSize,
		&rec.OpenPrice,
		&rec.ClosePrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.PnL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", orderID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
