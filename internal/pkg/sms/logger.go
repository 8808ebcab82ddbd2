package sms

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

var reDigits = regexp.MustCompile(`\d{4,}`)

// Logger is a development driver that only logs messages. Runs of four or
// more digits in the body are hidden so codes never reach the logs.
type Logger struct {
	ids uid.StringID
}

// NewLogger returns a Logger that stamps every message with an id from ids.
// A nil ids falls back to UUIDs.
func NewLogger(ids uid.StringID) *Logger {
	if ids == nil {
		ids = uid.NewUUID()
	}
	return &Logger{ids: ids}
}

// Send logs the message and acknowledges it.
func (l *Logger) Send(ctx context.Context, msg Message) (Ack, error) {
	if err := validate(msg); err != nil {
		return Ack{}, err
	}

	ack := Ack{RequestID: l.ids.Generate(), Status: "LOGGED"}
	slog.InfoContext(ctx, "sms: message logged",
		"to", msg.To,
		"body", reDigits.ReplaceAllString(msg.Body, "******"),
		"request_id", ack.RequestID,
	)

	return ack, nil
}

// Close implements io.Closer.
func (*Logger) Close() error {
	return nil
}
