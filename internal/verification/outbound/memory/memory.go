// Package memory is the in-process challenge store. Keys are spread over
// fixed shards so operations on different phone numbers rarely share a lock.
package memory

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

const shardCount = 64

type shard struct {
	mu    sync.Mutex
	items map[string]entity.Challenge
}

type Memory struct {
	shards [shardCount]*shard
	ins    instrument.Instrumentation
}

func New(ins instrument.Instrumentation) *Memory {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	m := &Memory{ins: ins}
	for i := range m.shards {
		m.shards[i] = &shard{items: map[string]entity.Challenge{}}
	}
	return m
}

func (m *Memory) shardFor(phone string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return m.shards[h.Sum32()%shardCount]
}

func (m *Memory) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("verification.outbound.memory").Start(ctx, name)
}

func clone(c entity.Challenge) entity.Challenge {
	if c.VerifiedAt != nil {
		at := *c.VerifiedAt
		c.VerifiedAt = &at
	}
	return c
}

func (m *Memory) Put(ctx context.Context, c entity.Challenge) error {
	_, span := m.startSpan(ctx, "Put")
	defer span.End()

	s := m.shardFor(c.PhoneNumber)
	s.mu.Lock()
	s.items[c.PhoneNumber] = clone(c)
	s.mu.Unlock()

	return nil
}

func (m *Memory) Get(ctx context.Context, phone string) (*entity.Challenge, error) {
	_, span := m.startSpan(ctx, "Get")
	defer span.End()

	s := m.shardFor(phone)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	c = clone(c)
	return &c, nil
}

// update applies fn to the stored challenge if it is unchanged from current
// and not yet verified.
func (m *Memory) update(current entity.Challenge, fn func(*entity.Challenge)) error {
	s := m.shardFor(current.PhoneNumber)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[current.PhoneNumber]
	if !ok || !stored.Writable(current) {
		return goerror.ErrConflict
	}

	fn(&stored)
	s.items[current.PhoneNumber] = stored
	return nil
}

func (m *Memory) UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) error {
	_, span := m.startSpan(ctx, "UpdateAttempts")
	defer span.End()

	return m.update(current, func(c *entity.Challenge) { c.Attempts = attempts })
}

func (m *Memory) MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) error {
	_, span := m.startSpan(ctx, "MarkVerified")
	defer span.End()

	return m.update(current, func(c *entity.Challenge) {
		c.Verified = true
		c.VerifiedAt = &at
	})
}

func (m *Memory) Delete(ctx context.Context, current entity.Challenge) error {
	_, span := m.startSpan(ctx, "Delete")
	defer span.End()

	s := m.shardFor(current.PhoneNumber)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[current.PhoneNumber]
	if !ok {
		return nil
	}
	if !stored.SameChallenge(current) {
		return goerror.ErrConflict
	}

	delete(s.items, current.PhoneNumber)
	return nil
}

func (m *Memory) DeleteExpired(ctx context.Context, before time.Time) ([]entity.Challenge, error) {
	_, span := m.startSpan(ctx, "DeleteExpired")
	defer span.End()

	var removed []entity.Challenge
	for _, s := range m.shards {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		s.mu.Lock()
		for phone, c := range s.items {
			if c.ExpiresAt.Before(before) {
				removed = append(removed, c)
				delete(s.items, phone)
			}
		}
		s.mu.Unlock()
	}

	return removed, nil
}

func (m *Memory) Close() error {
	return nil
}
