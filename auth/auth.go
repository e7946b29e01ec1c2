// Package auth registers and authenticates users against the account
// store. Passwords are stored as bcrypt hashes, never in the clear.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/store"
)

// DefaultStartingBalance is the demo credit every new account opens with.
const DefaultStartingBalance = 10000.0

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already exists")
)

type Service struct {
	store           store.Store
	startingBalance float64
}

func NewService(st store.Store, startingBalance float64) *Service {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &Service{store: st, startingBalance: startingBalance}
}

// Register creates a user with a fresh account and persists it. Fails
// with ErrUserExists when the username is taken.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	_, err := s.store.GetUser(ctx, username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &store.User{
		Username:     username,
		PasswordHash: string(hash),
		Account: engine.Account{
			Balance:      s.startingBalance,
			OpenOrders:   []engine.Order{},
			ClosedOrders: []engine.Order{},
		},
	}
	if err := s.store.PutUser(ctx, u); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	return u, nil
}

// Authenticate verifies the password and returns the stored user. Both
// unknown users and wrong passwords report ErrInvalidCredentials so a
// login probe cannot tell them apart.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.store.GetUser(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
