package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	nsq "github.com/nsqio/go-nsq"
)

var (
	// ErrNSQProducerAddrRequired is returned when the producer address is missing.
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned when no nsqd or lookupd address is configured.
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ driver.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
}

// NSQ is a Messaging backed by go-nsq. NSQ has no headers, so messages are
// wrapped in a small JSON envelope.
type NSQ struct {
	producer *nsq.Producer
	nsqd     []string
	lookupd  []string

	mu     sync.Mutex
	closed bool
}

type nsqEnvelope struct {
	Key     []byte            `json:"key,omitempty"`
	Body    []byte            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

// NewNSQ constructs an NSQ client.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{
		producer: p,
		nsqd:     append([]string{}, cfg.ConsumerNSQDAddrs...),
		lookupd:  append([]string{}, cfg.ConsumerLookupdAddrs...),
	}, nil
}

// Publish sends msg to topic.
func (n *NSQ) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	body, err := json.Marshal(nsqEnvelope{Key: msg.Key, Body: msg.Body, Headers: msg.Headers})
	if err != nil {
		return fmt.Errorf("messaging: nsq encode: %w", err)
	}
	if err := n.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

// Subscribe consumes topic on the channel named group. Failed messages are requeued.
func (n *NSQ) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	if err := validateSubscribe(ctx, topic, group, handler); err != nil {
		return err
	}
	if len(n.nsqd) == 0 && len(n.lookupd) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	consumer, err := nsq.NewConsumer(topic, group, nsq.NewConfig())
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
		var env nsqEnvelope
		if err := json.Unmarshal(m.Body, &env); err != nil {
			// Not ours; finish so it is not redelivered forever.
			return nil
		}
		return handle(ctx, "nsq", handler, Message{
			ID:      string(m.ID[:]),
			Key:     env.Key,
			Body:    env.Body,
			Headers: env.Headers,
		})
	}))

	if len(n.lookupd) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupd)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqd)
	}
	if err != nil {
		consumer.Stop()
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

// Close stops the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.closed {
		n.closed = true
		n.producer.Stop()
	}
	return nil
}
