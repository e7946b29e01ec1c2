package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 10000)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 10000.0, u.Account.Balance)
	assert.NotNil(t, u.Account.OpenOrders)
	assert.NotNil(t, u.Account.ClosedOrders)

	// The clear-text password must never be stored.
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"), "expected a bcrypt hash, got %q", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "hunter2")

	got, err := svc.Authenticate(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 10000)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "hunter3")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 10000)

	// Unknown users and wrong passwords report the same error.
	_, err := svc.Authenticate(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 10000)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 10000)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStartingBalanceDefault(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemory(), 0)

	u, err := svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, DefaultStartingBalance, u.Account.Balance)
}
