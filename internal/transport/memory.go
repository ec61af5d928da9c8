package transport

import (
	"context"
	"sync"

	"murmur/internal/domain"
)

// Memory is an in-process transport for tests and single-machine setups.
// Envelopes queue per recipient and are also pushed to live subscribers.
type Memory struct {
	mu      sync.Mutex
	inboxes map[domain.AccountID][]domain.WireEnvelope
	subs    map[domain.AccountID]map[int]domain.EnvelopeHandler
	nextSub int
}

// NewMemory returns an empty in-memory transport.
func NewMemory() *Memory {
	return &Memory{
		inboxes: make(map[domain.AccountID][]domain.WireEnvelope),
		subs:    make(map[domain.AccountID]map[int]domain.EnvelopeHandler),
	}
}

// Publish queues env for recipient and notifies subscribers. The envelope
// stays queued until deleted, so a later Fetch may redeliver it.
func (m *Memory) Publish(_ context.Context, recipient domain.AccountID, env domain.WireEnvelope) error {
	m.mu.Lock()
	m.inboxes[recipient] = append(m.inboxes[recipient], env)
	var handlers []domain.EnvelopeHandler
	for _, fn := range m.subs[recipient] {
		handlers = append(handlers, fn)
	}
	m.mu.Unlock()

	// Dispatch outside the lock; handlers may call back into the transport.
	for _, fn := range handlers {
		fn(env)
	}
	return nil
}

// Fetch returns every envelope currently queued for account.
func (m *Memory) Fetch(_ context.Context, account domain.AccountID) ([]domain.WireEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WireEnvelope(nil), m.inboxes[account]...), nil
}

// Subscribe registers fn for every envelope published to account.
func (m *Memory) Subscribe(_ context.Context, account domain.AccountID, fn domain.EnvelopeHandler) (domain.Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[account] == nil {
		m.subs[account] = make(map[int]domain.EnvelopeHandler)
	}
	id := m.nextSub
	m.nextSub++
	m.subs[account][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[account], id)
	}, nil
}

// Delete removes the envelope with envelopeID from account's inbox.
func (m *Memory) Delete(_ context.Context, account domain.AccountID, envelopeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.inboxes[account]
	for i, env := range queue {
		if env.ID == envelopeID {
			m.inboxes[account] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	return nil
}

// Compile-time assertion that Memory implements domain.Transport.
var _ domain.Transport = (*Memory)(nil)
