package inbound

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

func TestParseSchedule(t *testing.T) {
	t.Parallel()

	s, err := ParseSchedule("", "")
	if err != nil {
		t.Fatalf("ParseSchedule() error = %v", err)
	}
	if s.Hour != 0 || s.Minute != 0 || s.Location.String() != "Asia/Dhaka" {
		t.Fatalf("ParseSchedule() = %+v", s)
	}

	if _, err := ParseSchedule("25:00", "UTC"); err == nil {
		t.Fatal("ParseSchedule(25:00) error = nil")
	}
	if _, err := ParseSchedule("03:30", "Mars/Olympus"); err == nil {
		t.Fatal("ParseSchedule(bad tz) error = nil")
	}
}

func TestSchedule_Next(t *testing.T) {
	t.Parallel()

	dhaka, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	midnight := Schedule{Location: dhaka}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			// 17:59 UTC is 23:59 in Dhaka (UTC+6)
			name: "just before midnight",
			now:  time.Date(2024, 6, 1, 17, 59, 0, 0, time.UTC),
			want: time.Date(2024, 6, 2, 0, 0, 0, 0, dhaka),
		},
		{
			name: "exactly midnight runs next day",
			now:  time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 3, 0, 0, 0, 0, dhaka),
		},
		{
			name: "month rollover",
			now:  time.Date(2024, 6, 30, 20, 0, 0, 0, time.UTC),
			want: time.Date(2024, 7, 2, 0, 0, 0, 0, dhaka),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := midnight.Next(tt.now); !got.Equal(tt.want) {
				t.Fatalf("Next(%s) = %s, want %s", tt.now, got, tt.want)
			}
		})
	}

	afternoon := Schedule{Hour: 15, Minute: 30, Location: time.UTC}
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if got := afternoon.Next(now); !got.Equal(time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)) {
		t.Fatalf("Next() = %s", got)
	}
}

type countingSweeper struct {
	calls int
	cID   string
}

func (c *countingSweeper) SweepExpired(ctx context.Context) (*entity.SweepResult, error) {
	c.calls++
	c.cID = instrument.GetCorrelationID(ctx)
	return &entity.SweepResult{Deleted: 3}, nil
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	sw := &countingSweeper{}
	s := &Scheduler{uc: sw, clock: clock.New(), uuid: fixedUUID("sched-1"), ins: instrument.NewNoop()}

	s.runOnce(context.Background())
	if sw.calls != 1 || sw.cID != "sched-1" {
		t.Fatalf("calls = %d cID = %q", sw.calls, sw.cID)
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	sw := &countingSweeper{}
	s := &Scheduler{
		uc:       sw,
		clock:    clock.New(),
		uuid:     fixedUUID("x"),
		ins:      instrument.NewNoop(),
		schedule: Schedule{Hour: 0, Location: time.UTC},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
