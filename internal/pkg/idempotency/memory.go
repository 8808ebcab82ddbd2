package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// Memory is an in-process Idempotency. now defaults to time.Now.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty in-process tracker.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: map[string]memoryEntry{}, now: now}
}

func (m *Memory) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateError, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evict(now)

	if e, ok := m.entries[key]; ok {
		return e.state, nil
	}
	m.entries[key] = memoryEntry{state: StateInProgress, expiresAt: now.Add(lockDuration)}
	return StateNone, nil
}

func (m *Memory) MarkCompleted(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateCompleted, ttl)
	return nil
}

func (m *Memory) MarkFailed(_ context.Context, key string, ttl time.Duration) error {
	m.set(key, StateFailed, ttl)
	return nil
}

func (m *Memory) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	return exec(ctx, m, key, fn, opts...)
}

func (m *Memory) set(key string, st State, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{state: st, expiresAt: m.now().Add(ttl)}
}

// evict must be called with mu held.
func (m *Memory) evict(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
