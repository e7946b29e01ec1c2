// Package store persists user records keyed by username. The record is
// an opaque snapshot: callers read the whole user, mutate it, and write
// the whole user back. There are no transactions; use UserLocks to
// serialize read-modify-write cycles per user.
package store

import (
	"context"
	"errors"

	"github.com/rustyeddy/papertrade/engine"
)

var ErrUserNotFound = errors.New("user not found")

// User is one stored record: credentials plus the full account snapshot.
type User struct {
	Username     string         `json:"username"`
	PasswordHash string         `json:"password_hash"`
	Account      engine.Account `json:"account"`
}

type Store interface {
	// GetUser returns the stored record or ErrUserNotFound.
	GetUser(ctx context.Context, username string) (*User, error)
	// PutUser inserts or replaces the record.
	PutUser(ctx context.Context, user *User) error
	Close() error
}
