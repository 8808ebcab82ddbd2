package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/phone"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	msgVerifyRequired = "Phone number and OTP are required"

	// timePrecision is the coarsest precision of every store.
	timePrecision = time.Microsecond
)

type VerifyInput struct {
	PhoneNumber string `validate:"required,bdphone"`
	OTP         string `validate:"required"`
}

// Verify checks in.OTP against the active challenge. Outcomes are returned as
// results; only invalid input and store failures are errors.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*entity.VerifyResult, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.OTP = strings.TrimSpace(in.OTP)
	if err := s.validator.Validate(in); err != nil {
		if in.PhoneNumber == "" || in.OTP == "" {
			return nil, goerror.NewValidation(msgVerifyRequired, err)
		}
		return nil, goerror.NewValidation(msgPhoneInvalid, err)
	}

	number, err := phone.Normalize(in.PhoneNumber)
	if err != nil {
		return nil, goerror.NewValidation(msgPhoneInvalid, err)
	}

	var result *entity.VerifyResult
	backoff := retry.WithMaxRetries(s.casRetries(), retry.NewConstant(5*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := s.verifyOnce(ctx, number, in.OTP)
		if errors.Is(err, goerror.ErrConflict) {
			return retry.RetryableError(err)
		}
		result = res
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to verify challenge", "phone_number", phone.Mask(number), "error", err)
		return nil, goerror.NewServer(err)
	}

	s.attemptCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Status.String())))

	if result.Status == entity.VerifyVerified && s.repoMessaging != nil {
		if err := s.repoMessaging.PublishChallengeVerified(ctx, ChallengeVerifiedEvent{
			PhoneNumber: number,
			VerifiedAt:  s.clock.Now().UTC().Truncate(timePrecision),
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish challenge verified", "phone_number", phone.Mask(number), "error", err)
		}
	}

	return result, nil
}

// verifyOnce evaluates one read of the challenge. goerror.ErrConflict means
// the record changed underneath and the caller should read again.
func (s *Usecase) verifyOnce(ctx context.Context, number, code string) (*entity.VerifyResult, error) {
	current, err := s.store.Get(ctx, number)
	if errors.Is(err, goerror.ErrNotFound) {
		return &entity.VerifyResult{Status: entity.VerifyNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	if current.Verified {
		return &entity.VerifyResult{Status: entity.VerifyAlreadyUsed}, nil
	}

	now := s.clock.Now().UTC().Truncate(timePrecision)
	if current.IsExpired(now) {
		if err := s.store.Delete(ctx, *current); err != nil {
			return nil, err
		}
		return &entity.VerifyResult{Status: entity.VerifyExpired}, nil
	}

	limit := s.maxAttempts()
	if current.Attempts >= limit {
		if err := s.store.Delete(ctx, *current); err != nil {
			return nil, err
		}
		return &entity.VerifyResult{Status: entity.VerifyAttemptsExhausted}, nil
	}

	if !current.Matches(code) {
		attempts := current.Attempts + 1
		if err := s.store.UpdateAttempts(ctx, *current, attempts); err != nil {
			return nil, err
		}
		return &entity.VerifyResult{Status: entity.VerifyMismatch, RemainingAttempts: max(limit-attempts, 0)}, nil
	}

	if err := s.store.MarkVerified(ctx, *current, now); err != nil {
		return nil, err
	}
	return &entity.VerifyResult{Status: entity.VerifyVerified}, nil
}
