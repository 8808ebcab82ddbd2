package inbound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

const (
	defaultSweepAt       = "00:00"
	defaultSweepTimezone = "Asia/Dhaka"
)

// Schedule is a time of day in a location.
type Schedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// ParseSchedule parses at as HH:MM in the IANA zone tz.
func ParseSchedule(at, tz string) (Schedule, error) {
	if at == "" {
		at = defaultSweepAt
	}
	if tz == "" {
		tz = defaultSweepTimezone
	}

	t, err := time.Parse("15:04", at)
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid sweep time %q: %w", at, err)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid sweep timezone %q: %w", tz, err)
	}

	return Schedule{Hour: t.Hour(), Minute: t.Minute(), Location: loc}, nil
}

// Next returns the first run strictly after now.
func (s Schedule) Next(now time.Time) time.Time {
	local := now.In(s.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, s.Location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.Hour, s.Minute, 0, 0, s.Location)
	}
	return next
}

type Scheduler struct {
	uc       ucScheduler
	clock    clock.Clocker
	uuid     uid.StringID
	ins      instrument.Instrumentation
	schedule Schedule
}

func RegisterScheduler(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	clk clock.Clocker,
	uuid uid.StringID,
	uc ucScheduler,
	ins instrument.Instrumentation,
) error {
	if !cfg.GetBool("modules.verification.reaper.enabled") {
		slog.InfoContext(ctx, "expiry sweep schedule disabled")
		return nil
	}

	schedule, err := ParseSchedule(
		cfg.GetString("modules.verification.reaper.at"),
		cfg.GetString("modules.verification.reaper.timezone"),
	)
	if err != nil {
		return err
	}

	s := &Scheduler{uc: uc, clock: clk, uuid: uuid, ins: ins, schedule: schedule}
	return routine.Go(ctx, s.Run)
}

// Run sweeps once per day until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.schedule.Next(s.clock.Now())
		slog.InfoContext(ctx, "expiry sweep scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		s.runOnce(ctx)
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	ctx = instrument.SetCorrelationID(ctx, s.uuid.Generate())

	ctx, span := s.ins.Tracer("verification.inbound.scheduler").Start(ctx, "SweepExpired")
	defer span.End()

	res, err := s.uc.SweepExpired(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.ErrorContext(ctx, "failed to run scheduled expiry sweep", "error", err)
		}
		return
	}

	slog.InfoContext(ctx, "scheduled expiry sweep done", "deleted", res.Deleted, "skipped", res.Skipped)
}
