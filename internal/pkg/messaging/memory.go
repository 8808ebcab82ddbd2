package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

const memoryMaxDeliveries = 3

// Memory is an in-process broker. Useful for single-node deployments and tests.
type Memory struct {
	ids uid.StringID

	mu     sync.RWMutex
	groups map[string]map[string]chan memoryDelivery
	closed bool
	done   chan struct{}
}

type memoryDelivery struct {
	msg      Message
	attempts int
}

// NewMemory constructs an in-process broker.
func NewMemory(ids uid.StringID) *Memory {
	if ids == nil {
		ids = uid.NewUUID()
	}
	return &Memory{
		ids:    ids,
		groups: map[string]map[string]chan memoryDelivery{},
		done:   make(chan struct{}),
	}
}

func (m *Memory) queue(topic, group string) (chan memoryDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	byGroup, ok := m.groups[topic]
	if !ok {
		byGroup = map[string]chan memoryDelivery{}
		m.groups[topic] = byGroup
	}
	q, ok := byGroup[group]
	if !ok {
		q = make(chan memoryDelivery, 256)
		byGroup[group] = q
	}
	return q, nil
}

// Publish fans msg out to every group subscribed to topic.
// Messages for topics nobody subscribed to are dropped.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	if msg.ID == "" {
		msg.ID = m.ids.Generate()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	for _, q := range m.groups[topic] {
		d := memoryDelivery{msg: Message{
			ID:        msg.ID,
			Key:       msg.Key,
			Body:      msg.Body,
			Headers:   copyHeaders(msg.Headers),
			Timestamp: msg.Timestamp,
		}}
		select {
		case q <- d:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe consumes topic as a member of group until ctx is done.
// A failed message is redelivered up to three times in total.
func (m *Memory) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	if err := validateSubscribe(ctx, topic, group, handler); err != nil {
		return err
	}

	q, err := m.queue(topic, group)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case d := <-q:
			d.attempts++
			if herr := handle(ctx, "memory", handler, d.msg); herr != nil {
				if d.attempts >= memoryMaxDeliveries {
					slog.WarnContext(ctx, "messaging: dropping message after max deliveries",
						"topic", topic, "group", group, "id", d.msg.ID, "error", herr)
					continue
				}
				select {
				case q <- d:
				default:
					slog.WarnContext(ctx, "messaging: redelivery queue full", "topic", topic, "group", group, "id", d.msg.ID)
				}
			}
		}
	}
}

// Close stops all subscribers.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}
