package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_Exec(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(func() time.Time { return now })
	ctx := context.Background()

	calls := 0
	run := func(context.Context) error {
		calls++
		return nil
	}

	if err := m.Exec(ctx, "sweep:1", run, WithStateTTL(time.Hour)); err != nil {
		t.Fatalf("first Exec() error = %v", err)
	}
	if err := m.Exec(ctx, "sweep:1", run, WithStateTTL(time.Hour)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second Exec() error = %v, want ErrAlreadyCompleted", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	now = now.Add(2 * time.Hour)
	if err := m.Exec(ctx, "sweep:1", run, WithStateTTL(time.Hour)); err != nil {
		t.Fatalf("Exec() after ttl error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestMemory_ExecFailure(t *testing.T) {
	t.Parallel()

	m := NewMemory(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	if err := m.Exec(ctx, "k", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Exec() error = %v, want boom", err)
	}
	if err := m.Exec(ctx, "k", func(context.Context) error { return nil }); !errors.Is(err, ErrAlreadyFailed) {
		t.Fatalf("Exec() after failure error = %v, want ErrAlreadyFailed", err)
	}
}

func TestMemory_InProgress(t *testing.T) {
	t.Parallel()

	m := NewMemory(nil)
	ctx := context.Background()

	err := m.Exec(ctx, "k", func(ctx context.Context) error {
		if err := m.Exec(ctx, "k", func(context.Context) error { return nil }); !errors.Is(err, ErrAlreadyInProgress) {
			t.Errorf("nested Exec() error = %v, want ErrAlreadyInProgress", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
}
