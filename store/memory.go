package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process store for tests and throwaway servers.
type Memory struct {
	mu    sync.RWMutex
	users map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]json.RawMessage)}
}

// GetUser returns a copy; mutating the result does not change the store
// until PutUser.
func (m *Memory) GetUser(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	blob, ok := m.users[username]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrUserNotFound
	}

	u := &User{}
	if err := json.Unmarshal(blob, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *Memory) PutUser(ctx context.Context, user *User) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.users[user.Username] = blob
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
