package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnreachable is returned when the gateway could not be reached or did
	// not answer before the deadline.
	ErrUnreachable = errors.New("sms: gateway unreachable")
	// ErrDestinationRequired is returned when Message.To is empty.
	ErrDestinationRequired = errors.New("sms: destination is required")
	// ErrBodyRequired is returned when Message.Body is empty.
	ErrBodyRequired = errors.New("sms: body is required")
)

// Message is a single text message to one destination.
type Message struct {
	// To is the destination in international form, e.g. +8801712345678.
	To string
	// Body is the message text.
	Body string
}

// Ack is the gateway acknowledgement of an accepted message.
type Ack struct {
	// RequestID is the gateway reference for the message, if provided.
	RequestID string
	// Status is the raw gateway status.
	Status string
}

// SMS sends text messages through a provider.
type SMS interface {
	io.Closer
	// Send hands the message to the provider. A nil error means the provider accepted it.
	Send(ctx context.Context, msg Message) (Ack, error)
}

// RejectedError reports a message the gateway answered but did not accept.
type RejectedError struct {
	StatusCode   string
	StatusDetail string
	HTTPStatus   int
}

func (e *RejectedError) Error() string {
	return "sms: rejected status=" + e.StatusCode + " detail=" + e.StatusDetail
}

// Detail returns a short human readable reason for a send failure.
func Detail(err error) string {
	var rej *RejectedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rej) && rej.StatusDetail != "":
		return rej.StatusDetail
	case errors.Is(err, ErrUnreachable):
		return "Could not reach SMS gateway"
	default:
		return "Unknown error"
	}
}

func validate(msg Message) error {
	if msg.To == "" {
		return ErrDestinationRequired
	}
	if msg.Body == "" {
		return ErrBodyRequired
	}
	return nil
}
