package queue

import (
	"context"
	"sync"
)

// MemoryTransport accumulates published bodies in memory. It stands in for a
// broker in tests and in local runs without one; nothing consumes what it
// holds.
type MemoryTransport struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (t *MemoryTransport) Publish(ctx context.Context, body []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bodies = append(t.bodies, append([]byte{}, body...))
	return nil
}

// Bodies returns the published bodies in publish order.
func (t *MemoryTransport) Bodies() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte{}, t.bodies...)
}

func (t *MemoryTransport) Close() error {
	return nil
}
