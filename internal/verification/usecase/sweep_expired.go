package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type SweepRequestedInput struct {
	MessageID string
	Reason    string
}

// SweepExpired removes every challenge that expired before now. A sweep that
// starts while another is running is skipped.
func (s *Usecase) SweepExpired(ctx context.Context) (*entity.SweepResult, error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer span.End()

	if !s.sweeping.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "expiry sweep already running, skipping")
		return &entity.SweepResult{Skipped: true}, nil
	}
	defer s.sweeping.Store(false)

	now := s.clock.Now().UTC()
	removed, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired challenges", "before", now, "removed", len(removed), "error", err)
		return nil, goerror.NewServer(err)
	}

	result := &entity.SweepResult{Deleted: len(removed)}
	s.sweptCounter.Add(ctx, int64(len(removed)), metric.WithAttributes(attribute.Bool("archived", s.archive != nil)))

	if s.archive != nil && len(removed) > 0 {
		key, err := s.archive.SaveSweep(ctx, now, removed)
		if err != nil {
			slog.ErrorContext(ctx, "failed to archive swept challenges", "count", len(removed), "error", err)
		}
		result.Archived = key
	}

	slog.InfoContext(ctx, "expiry sweep finished", "deleted", result.Deleted, "archive_key", result.Archived)

	return result, nil
}

// ConsumeSweepRequested runs a sweep for an external trigger. Redelivered
// triggers with the same message id run once.
func (s *Usecase) ConsumeSweepRequested(ctx context.Context, in SweepRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSweepRequested")
	defer span.End()

	run := func(ctx context.Context) error {
		_, err := s.SweepExpired(ctx)
		return err
	}

	if in.MessageID == "" || s.idemp == nil {
		return run(ctx)
	}

	err := s.idemp.Exec(ctx, "verification:sweep:"+in.MessageID, run,
		idempotency.WithLockDuration(s.lockDuration()),
		idempotency.WithStateTTL(s.stateTTL()),
	)
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "sweep request already handled", "message_id", in.MessageID, "reason", in.Reason, "state", err.Error())
		return nil
	case err != nil:
		return err
	}

	return nil
}
