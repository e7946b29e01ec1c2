package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	account TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite keeps user records in a local database, one row per user with
// the account snapshot as a JSON blob.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) GetUser(ctx context.Context, username string) (*User, error) {
	var (
		hash string
		blob []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, account FROM users WHERE username = ?`, username,
	).Scan(&hash, &blob)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	u := &User{Username: username, PasswordHash: hash}
	if err := json.Unmarshal(blob, &u.Account); err != nil {
		return nil, fmt.Errorf("decode account for %q: %w", username, err)
	}
	return u, nil
}

func (s *SQLite) PutUser(ctx context.Context, user *User) error {
	blob, err := json.Marshal(user.Account)
	if err != nil {
		return fmt.Errorf("encode account for %q: %w", user.Username, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, account)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			account = excluded.account`,
		user.Username, user.PasswordHash, blob,
	)
	if err != nil {
		return fmt.Errorf("put user %q: %w", user.Username, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
