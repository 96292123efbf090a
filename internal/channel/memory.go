package channel

import (
	"context"
	"sync"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/notify"
)

// Memory is an in-process channel. Every subscriber, including the
// publisher's own subscription, receives each envelope.
type Memory struct {
	fan *notify.Hub[Envelope]

	mu     sync.RWMutex
	closed bool
}

// NewMemory creates an in-process channel.
func NewMemory() *Memory {
	return &Memory{fan: notify.New[Envelope](subscriberBuffer)}
}

// Publish delivers env to all current subscribers.
func (m *Memory) Publish(ctx context.Context, env Envelope) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return cerrors.ErrChannelClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.fan.Publish(env)
	return nil
}

// Subscribe registers a new subscriber.
func (m *Memory) Subscribe() (<-chan Envelope, func()) {
	return m.fan.Subscribe()
}

// Close closes every subscription.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.fan.Close()
	return nil
}

var _ Channel = (*Memory)(nil)
