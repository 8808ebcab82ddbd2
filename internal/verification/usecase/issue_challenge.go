package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/phone"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	msgPhoneRequired = "Phone number is required"
	msgPhoneInvalid  = "Invalid Bangladesh phone number format. Use +8801XXXXXXXXX"
	msgIssued        = "OTP sent successfully via SMS"
)

type IssueChallengeInput struct {
	PhoneNumber string `validate:"required,bdphone"`
}

func (s *Usecase) IssueChallenge(ctx context.Context, in IssueChallengeInput) (*entity.IssueResult, error) {
	ctx, span := s.startSpan(ctx, "IssueChallenge")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := s.validator.Validate(in); err != nil {
		if in.PhoneNumber == "" {
			return nil, goerror.NewValidation(msgPhoneRequired, err)
		}
		return nil, goerror.NewValidation(msgPhoneInvalid, err)
	}

	number, err := phone.Normalize(in.PhoneNumber)
	if err != nil {
		return nil, goerror.NewValidation(msgPhoneInvalid, err)
	}

	code, err := s.newCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "phone_number", phone.Mask(number), "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.ttl()
	now := s.clock.Now().UTC().Truncate(timePrecision)
	challenge := entity.Challenge{
		PhoneNumber: number,
		Code:        code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	if err := s.store.Put(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to repo put challenge", "phone_number", phone.Mask(number), "error", err)
		return nil, goerror.NewServer(err)
	}

	result := &entity.IssueResult{ExpiresIn: ttl}

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout())
	ack, err := s.gateway.Send(sendCtx, number, smsBody(code, max(int(math.Round(ttl.Minutes())), 1)))
	cancel()

	if err != nil {
		reason := "Unknown error"
		var derr *DeliveryError
		if errors.As(err, &derr) && derr.Reason != "" {
			reason = derr.Reason
		}
		slog.WarnContext(ctx, "failed to deliver otp", "phone_number", phone.Mask(number), "reason", reason, "error", err)

		result.Status = entity.IssueDeliveryFailed
		result.Message = "SMS delivery failed: " + reason
	} else {
		result.Status = entity.IssueChallengeCreated
		result.Message = msgIssued
		result.RequestID = ack.RequestID
	}

	s.issuedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Status.String())))

	if s.repoMessaging != nil {
		if err := s.repoMessaging.PublishChallengeIssued(ctx, ChallengeIssuedEvent{
			PhoneNumber: number,
			CreatedAt:   challenge.CreatedAt,
			ExpiresAt:   challenge.ExpiresAt,
			Delivered:   result.Success(),
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish challenge issued", "phone_number", phone.Mask(number), "error", err)
		}
	}

	return result, nil
}

func smsBody(code string, minutes int) string {
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("Your OTP is %s. Valid for %d %s. Do not share with anyone.", code, minutes, unit)
}
