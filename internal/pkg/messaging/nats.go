package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS driver.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a Messaging backed by core NATS queue subscriptions.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	closed bool
}

// NewNATS connects to NATS.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish sends msg to the subject named topic.
func (n *NATS) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// Subscribe joins the queue group on topic. Ack and Nak only take effect on
// JetStream-backed subjects; core NATS delivers at most once.
func (n *NATS) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	if err := validateSubscribe(ctx, topic, group, handler); err != nil {
		return err
	}

	msgCh := make(chan *nats.Msg, 64)
	sub, err := n.conn.ChanQueueSubscribe(topic, group, msgCh)
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-msgCh:
			if !ok {
				return nil
			}
			msg := Message{Body: m.Data}
			if len(m.Header) > 0 {
				msg.Headers = make(map[string]string, len(m.Header))
				for k := range m.Header {
					msg.Headers[k] = m.Header.Get(k)
				}
			}
			if herr := handle(ctx, "nats", handler, msg); herr != nil {
				_ = m.Nak()
				continue
			}
			_ = m.Ack()
		}
	}
}

// Close drains the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true
	return n.conn.Drain()
}
