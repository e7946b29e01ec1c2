package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	order_id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	lot_size REAL NOT NULL,
	open_price REAL NOT NULL,
	close_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	pnl REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_username ON trades(username);
CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
`
