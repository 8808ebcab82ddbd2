package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// SweepRequested runs the expiry sweep for an external trigger. An empty body
// is a valid request.
func (h *MQHandler) SweepRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("verification.inbound.mq").Start(ctx, "SweepRequested")
	defer span.End()

	slog.InfoContext(ctx, "consume: sweep requested", "msg_id", msg.ID, "msg_body", string(msg.Body))

	var payload event.SweepRequestedMessage
	if len(msg.Body) > 0 {
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			slog.ErrorContext(ctx, "failed to parse message body of sweep requested", "msg_body", string(msg.Body), "error", err)
			return nil
		}
	}

	// the publisher's request id survives broker redelivery ids changing
	id := payload.RequestID
	if id == "" {
		id = msg.ID
	}

	if err := h.uc.ConsumeSweepRequested(ctx, usecase.SweepRequestedInput{
		MessageID: id,
		Reason:    payload.Reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume sweep requested", "msg_id", id, "error", err)
		return err
	}

	return nil
}
