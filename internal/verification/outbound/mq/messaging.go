package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ids    uid.NumberID
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ids uid.NumberID, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ids: ids, ins: ins}
}

func (m *Messaging) PublishChallengeIssued(ctx context.Context, msg usecase.ChallengeIssuedEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishChallengeIssued")
	defer span.End()

	// phone number doubles as the partition key so a subscriber sees one
	// number's events in order
	return m.publish(ctx, span, event.ChallengeIssuedDestination, msg.PhoneNumber, event.ChallengeIssuedMessage{
		EventID:     m.ids.Generate(),
		PhoneNumber: msg.PhoneNumber,
		CreatedAt:   msg.CreatedAt,
		ExpiresAt:   msg.ExpiresAt,
		Delivered:   msg.Delivered,
	})
}

func (m *Messaging) PublishChallengeVerified(ctx context.Context, msg usecase.ChallengeVerifiedEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishChallengeVerified")
	defer span.End()

	return m.publish(ctx, span, event.ChallengeVerifiedDestination, msg.PhoneNumber, event.ChallengeVerifiedMessage{
		EventID:     m.ids.Generate(),
		PhoneNumber: msg.PhoneNumber,
		VerifiedAt:  msg.VerifiedAt,
	})
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, topic, messaging.Message{
		Key:     []byte(key),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: cID},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
