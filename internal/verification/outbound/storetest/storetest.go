// Package storetest holds the behaviour every challenge store adapter must
// share. Adapter tests call Run with a constructor for a fresh, empty store.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// Store is the challenge store contract.
type Store interface {
	Put(ctx context.Context, c entity.Challenge) error
	Get(ctx context.Context, phone string) (*entity.Challenge, error)
	UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) error
	MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) error
	Delete(ctx context.Context, current entity.Challenge) error
	DeleteExpired(ctx context.Context, before time.Time) ([]entity.Challenge, error)
}

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func challenge(phone string, createdAt time.Time) entity.Challenge {
	return entity.Challenge{
		PhoneNumber: phone,
		Code:        "042137",
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(5 * time.Minute),
	}
}

func mustGet(t *testing.T, s Store, phone string) entity.Challenge {
	t.Helper()

	got, err := s.Get(context.Background(), phone)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", phone, err)
	}
	return *got
}

// Run executes the contract against stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(context.Background(), "+8801700000001"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put get round trip", func(t *testing.T) {
		s := newStore(t)
		c := challenge("+8801700000002", base)
		if err := s.Put(context.Background(), c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got := mustGet(t, s, c.PhoneNumber)
		if got.Code != c.Code || !got.CreatedAt.Equal(c.CreatedAt) || !got.ExpiresAt.Equal(c.ExpiresAt) {
			t.Fatalf("Get() = %+v, want %+v", got, c)
		}
		if got.Verified || got.Attempts != 0 || got.VerifiedAt != nil {
			t.Fatalf("Get() fresh state = %+v", got)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		first := challenge("+8801700000003", base)
		if err := s.Put(ctx, first); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.UpdateAttempts(ctx, first, 2); err != nil {
			t.Fatalf("UpdateAttempts() error = %v", err)
		}

		second := challenge(first.PhoneNumber, base.Add(time.Minute))
		second.Code = "999999"
		if err := s.Put(ctx, second); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got := mustGet(t, s, first.PhoneNumber)
		if got.Code != "999999" || got.Attempts != 0 || !got.CreatedAt.Equal(second.CreatedAt) {
			t.Fatalf("Get() after overwrite = %+v", got)
		}
	})

	t.Run("update attempts is conditional", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		c := challenge("+8801700000004", base)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := s.UpdateAttempts(ctx, c, 1); err != nil {
			t.Fatalf("UpdateAttempts() error = %v", err)
		}
		// c still says attempts=0, the store has moved on
		if err := s.UpdateAttempts(ctx, c, 1); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("stale UpdateAttempts() error = %v, want ErrConflict", err)
		}

		got := mustGet(t, s, c.PhoneNumber)
		if got.Attempts != 1 {
			t.Fatalf("Attempts = %d, want 1", got.Attempts)
		}
		if err := s.UpdateAttempts(ctx, got, 2); err != nil {
			t.Fatalf("UpdateAttempts(fresh) error = %v", err)
		}

		missing := challenge("+8801700000099", base)
		if err := s.UpdateAttempts(ctx, missing, 1); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("UpdateAttempts(missing) error = %v, want ErrConflict", err)
		}
	})

	t.Run("mark verified", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		c := challenge("+8801700000005", base)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		at := base.Add(time.Minute)
		if err := s.MarkVerified(ctx, c, at); err != nil {
			t.Fatalf("MarkVerified() error = %v", err)
		}

		got := mustGet(t, s, c.PhoneNumber)
		if !got.Verified || got.VerifiedAt == nil || !got.VerifiedAt.Equal(at) {
			t.Fatalf("Get() after verify = %+v", got)
		}

		if err := s.MarkVerified(ctx, got, at); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("MarkVerified(verified) error = %v, want ErrConflict", err)
		}
		if err := s.UpdateAttempts(ctx, got, 1); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("UpdateAttempts(verified) error = %v, want ErrConflict", err)
		}
	})

	t.Run("stale challenge cannot touch a re-issue", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		old := challenge("+8801700000006", base)
		if err := s.Put(ctx, old); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		fresh := challenge(old.PhoneNumber, base.Add(time.Second))
		if err := s.Put(ctx, fresh); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := s.MarkVerified(ctx, old, base); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("MarkVerified(old) error = %v, want ErrConflict", err)
		}
		if err := s.Delete(ctx, old); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("Delete(old) error = %v, want ErrConflict", err)
		}
		if got := mustGet(t, s, old.PhoneNumber); !got.CreatedAt.Equal(fresh.CreatedAt) {
			t.Fatalf("re-issue was modified: %+v", got)
		}
	})

	t.Run("re-issue in the same microsecond is a different challenge", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		old := challenge("+8801700000010", base)
		old.Code = "111111"
		if err := s.Put(ctx, old); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		stale := mustGet(t, s, old.PhoneNumber)

		fresh := challenge(old.PhoneNumber, base)
		fresh.Code = "222222"
		if err := s.Put(ctx, fresh); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := s.MarkVerified(ctx, stale, base); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("MarkVerified(stale) error = %v, want ErrConflict", err)
		}
		if err := s.UpdateAttempts(ctx, stale, 1); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("UpdateAttempts(stale) error = %v, want ErrConflict", err)
		}
		if err := s.Delete(ctx, stale); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("Delete(stale) error = %v, want ErrConflict", err)
		}

		got := mustGet(t, s, old.PhoneNumber)
		if got.Code != "222222" || got.Verified || got.Attempts != 0 {
			t.Fatalf("re-issue was modified: %+v", got)
		}
	})

	t.Run("verified challenge is final", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		c := challenge("+8801700000011", base)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		first := base.Add(time.Minute)
		if err := s.MarkVerified(ctx, c, first); err != nil {
			t.Fatalf("MarkVerified() error = %v", err)
		}

		verified := mustGet(t, s, c.PhoneNumber)
		if err := s.MarkVerified(ctx, verified, base.Add(2*time.Minute)); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("MarkVerified(verified) error = %v, want ErrConflict", err)
		}
		if err := s.UpdateAttempts(ctx, verified, 2); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("UpdateAttempts(verified) error = %v, want ErrConflict", err)
		}

		got := mustGet(t, s, c.PhoneNumber)
		if got.VerifiedAt == nil || !got.VerifiedAt.Equal(first) || got.Attempts != 0 {
			t.Fatalf("verified record was rewritten: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		c := challenge("+8801700000007", base)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.UpdateAttempts(ctx, c, 3); err != nil {
			t.Fatalf("UpdateAttempts() error = %v", err)
		}

		// delete keys on the issuance, not the attempt count
		if err := s.Delete(ctx, c); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, c.PhoneNumber); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("Get() after delete error = %v", err)
		}
		if err := s.Delete(ctx, c); err != nil {
			t.Fatalf("Delete(absent) error = %v, want nil", err)
		}
	})

	t.Run("delete expired", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		expiredA := challenge("+8801700000010", base.Add(-10*time.Minute))
		expiredB := challenge("+8801700000011", base.Add(-6*time.Minute))
		boundary := challenge("+8801700000012", base.Add(-5*time.Minute))
		live := challenge("+8801700000013", base)
		for _, c := range []entity.Challenge{expiredA, expiredB, boundary, live} {
			if err := s.Put(ctx, c); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
		}

		removed, err := s.DeleteExpired(ctx, base)
		if err != nil {
			t.Fatalf("DeleteExpired() error = %v", err)
		}

		var phones []string
		for _, c := range removed {
			phones = append(phones, c.PhoneNumber)
		}
		sort.Strings(phones)
		if len(phones) != 2 || phones[0] != expiredA.PhoneNumber || phones[1] != expiredB.PhoneNumber {
			t.Fatalf("DeleteExpired() removed %v", phones)
		}

		for _, c := range []entity.Challenge{boundary, live} {
			mustGet(t, s, c.PhoneNumber)
		}
		for _, c := range []entity.Challenge{expiredA, expiredB} {
			if _, err := s.Get(ctx, c.PhoneNumber); !errors.Is(err, goerror.ErrNotFound) {
				t.Fatalf("Get(%s) after sweep error = %v", c.PhoneNumber, err)
			}
		}
	})

	t.Run("concurrent attempts are serialised", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		c := challenge("+8801700000020", base)
		if err := s.Put(ctx, c); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		const workers = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.UpdateAttempts(ctx, c, 1); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else if !errors.Is(err, goerror.ErrConflict) {
					t.Errorf("UpdateAttempts() error = %v", err)
				}
			}()
		}
		wg.Wait()

		if wins != 1 {
			t.Fatalf("winning updates = %d, want 1", wins)
		}
	})
}
