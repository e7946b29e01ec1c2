package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/engine"
)

func sampleUser(username string) *User {
	return &User{
		Username:     username,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		Account: engine.Account{
			Balance:      10000,
			OpenOrders:   []engine.Order{},
			ClosedOrders: []engine.Order{},
		},
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	_, err = s.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u := sampleUser("alice")
	u.Account.OpenOrders = append(u.Account.OpenOrders, engine.Order{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Symbol:    "XAUUSD",
		Side:      engine.Buy,
		LotSize:   2,
		OpenPrice: 1950,
		Status:    engine.StatusOpen,
	})
	require.NoError(t, s.PutUser(ctx, u))

	got, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, 10000.0, got.Account.Balance)
	require.Len(t, got.Account.OpenOrders, 1)
	assert.Equal(t, "XAUUSD", got.Account.OpenOrders[0].Symbol)
}

func TestSQLitePutReplaces(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	u := sampleUser("bob")
	require.NoError(t, s.PutUser(ctx, u))

	u.Account.Balance = 12345
	require.NoError(t, s.PutUser(ctx, u))

	got, err := s.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 12345.0, got.Account.Balance)
}

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, m.PutUser(ctx, sampleUser("alice")))

	got, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, got.Account.Balance)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.PutUser(ctx, sampleUser("alice")))

	got, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	got.Account.Balance = 0

	again, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, again.Account.Balance, "mutating a fetched user must not change the store")
}

func TestUserLocksSerializeReadModifyWrite(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	locks := NewUserLocks()
	ctx := context.Background()

	u := sampleUser("alice")
	u.Account.Balance = 0
	require.NoError(t, m.PutUser(ctx, u))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			defer locks.Lock("alice")()

			got, err := m.GetUser(ctx, "alice")
			if err != nil {
				t.Error(err)
				return
			}
			got.Account.Balance++
			if err := m.PutUser(ctx, got); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, float64(workers), got.Account.Balance)
}

func TestUserLocksIndependentUsers(t *testing.T) {
	t.Parallel()

	locks := NewUserLocks()

	unlockA := locks.Lock("alice")
	// A different user's lock must not block.
	done := make(chan struct{})
	go func() {
		defer locks.Lock("bob")()
		close(done)
	}()
	<-done
	unlockA()
}
