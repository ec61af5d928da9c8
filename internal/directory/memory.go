package directory

import (
	"context"
	"sync"

	"murmur/internal/domain"
)

// Memory is an in-process directory for tests and local setups.
type Memory struct {
	mu   sync.RWMutex
	keys map[domain.AccountID]string
}

// NewMemory returns an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{keys: make(map[domain.AccountID]string)}
}

// Publish records account's key, replacing any previous one.
func (m *Memory) Publish(_ context.Context, account domain.AccountID, publicKeyB64 string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[account] = publicKeyB64
	return nil
}

// Resolve returns the stored key for account.
func (m *Memory) Resolve(_ context.Context, account domain.AccountID) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.keys[account]
	return key, ok, nil
}

// Compile-time assertion that Memory implements domain.KeyDirectory.
var _ domain.KeyDirectory = (*Memory)(nil)
