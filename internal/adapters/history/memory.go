// Package history provides sender-history backends for the first-time
// sender behavioral signal.
package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process sender history. State is lost on restart,
// which suits single-run CLI usage and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	senders map[string]time.Time
}

// NewMemoryStore creates an empty in-memory history.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{senders: make(map[string]time.Time)}
}

func (m *MemoryStore) Seen(ctx context.Context, sender string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.senders[sender]
	return ok, nil
}

func (m *MemoryStore) MarkSeen(ctx context.Context, sender string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.senders[sender]; !ok {
		m.senders[sender] = at
	}
	return nil
}
