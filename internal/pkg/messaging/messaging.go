package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrClosed is returned when the client has been closed.
	ErrClosed = errors.New("messaging: client closed")
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrGroupRequired is returned when a consumer group is required but empty.
	ErrGroupRequired = errors.New("messaging: group is required")
	// ErrHandlerRequired is returned when Subscribe is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging publishes messages to topics and consumes them in groups.
type Messaging interface {
	io.Closer
	Publisher
	Subscriber
}

// Publisher publishes messages.
type Publisher interface {
	// Publish sends msg to topic.
	Publish(ctx context.Context, topic string, msg Message) error
}

// Subscriber consumes messages.
type Subscriber interface {
	// Subscribe delivers messages from topic to handler until ctx is done.
	// Members of the same group share the stream; each group sees every message.
	Subscribe(ctx context.Context, topic, group string, handler Handler) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Message is a broker-agnostic message.
type Message struct {
	// ID is the broker message id when the broker assigns one.
	ID string
	// Key is used for partitioning where supported.
	Key []byte
	// Body is the payload.
	Body []byte
	// Headers carries string metadata such as the correlation id.
	Headers map[string]string
	// Timestamp is the broker or publish time.
	Timestamp time.Time
}

// Header returns the header value for key or "".
func (m Message) Header(key string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[key]
}

func validateSubscribe(ctx context.Context, topic, group string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if group == "" {
		return ErrGroupRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}

func copyHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
