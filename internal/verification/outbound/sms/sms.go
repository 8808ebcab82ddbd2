package sms

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/phone"
	"github.com/shandysiswandi/otpgate/internal/pkg/sms"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Gateway struct {
	client sms.SMS
	ins    instrument.Instrumentation
}

func New(client sms.SMS, ins instrument.Instrumentation) *Gateway {
	return &Gateway{client: client, ins: ins}
}

// Send delivers body to the normalized number to. Failures come back as
// *usecase.DeliveryError carrying the gateway detail.
func (g *Gateway) Send(ctx context.Context, to, body string) (entity.DeliveryAck, error) {
	ctx, span := g.ins.Tracer("verification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("sms.destination", phone.Mask(to)))

	ack, err := g.client.Send(ctx, sms.Message{To: to, Body: body})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.DeliveryAck{}, &usecase.DeliveryError{Reason: sms.Detail(err), Err: err}
	}

	span.SetAttributes(attribute.String("sms.request_id", ack.RequestID))
	return entity.DeliveryAck{RequestID: ack.RequestID}, nil
}
