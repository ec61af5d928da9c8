// Package events is the in-process fan-out for reconciled messages. The
// reconciler publishes each newly persisted message; UI layers subscribe.
package events

import (
	"sync"

	"murmur/internal/domain"
)

// Bus fans persisted messages out to subscribers. Publishing never blocks;
// a subscriber that falls behind loses events rather than stalling intake.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan domain.Message
	nextID int
	closed bool
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan domain.Message)}
}

// Subscribe registers a listener with the given channel buffer. The cancel
// func removes the subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan domain.Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Message, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber with buffer room.
func (b *Bus) Publish(msg domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Close drops all subscribers and closes their channels. Publishing after
// Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
