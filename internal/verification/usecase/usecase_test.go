package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/memory"
)

var t0 = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type sentSMS struct {
	to   string
	body string
}

type fakeGateway struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (g *fakeGateway) Send(ctx context.Context, to, body string) (entity.DeliveryAck, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return entity.DeliveryAck{}, errors.New("send without deadline")
	}
	g.sent = append(g.sent, sentSMS{to: to, body: body})
	if g.err != nil {
		return entity.DeliveryAck{}, g.err
	}
	return entity.DeliveryAck{RequestID: "req-" + to}, nil
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []ChallengeIssuedEvent
	verified []ChallengeVerifiedEvent
}

func (m *fakeMessaging) PublishChallengeIssued(_ context.Context, msg ChallengeIssuedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued = append(m.issued, msg)
	return nil
}

func (m *fakeMessaging) PublishChallengeVerified(_ context.Context, msg ChallengeVerifiedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verified = append(m.verified, msg)
	return nil
}

type fakeArchive struct {
	saved [][]entity.Challenge
	err   error
}

func (a *fakeArchive) SaveSweep(_ context.Context, _ time.Time, removed []entity.Challenge) (string, error) {
	a.saved = append(a.saved, removed)
	if a.err != nil {
		return "", a.err
	}
	return "verification/sweeps/test.jsonl", nil
}

type harness struct {
	uc      *Usecase
	store   *memory.Memory
	clock   *clock.Manual
	gateway *fakeGateway
	events  *fakeMessaging
	codes   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: otpgate-test\n"))
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator error = %v", err)
	}

	h := &harness{
		store:   memory.New(nil),
		clock:   clock.NewManual(t0),
		gateway: &fakeGateway{},
		events:  &fakeMessaging{},
	}
	h.uc = New(Dependency{
		Store:       h.store,
		Gateway:     h.gateway,
		Messaging:   h.events,
		Idempotency: idempotency.NewMemory(nil),
		Config:      cfg,
		Clock:       h.clock,
		Validator:   v,
	})
	h.uc.newCode = func() (string, error) {
		if len(h.codes) == 0 {
			return generateCode()
		}
		c := h.codes[0]
		h.codes = h.codes[1:]
		return c, nil
	}

	return h
}

func (h *harness) issue(t *testing.T, number string, codes ...string) *entity.IssueResult {
	t.Helper()

	h.codes = append(h.codes, codes...)
	res, err := h.uc.IssueChallenge(context.Background(), IssueChallengeInput{PhoneNumber: number})
	if err != nil {
		t.Fatalf("IssueChallenge(%q) error = %v", number, err)
	}
	return res
}

func (h *harness) verify(t *testing.T, number, code string) *entity.VerifyResult {
	t.Helper()

	res, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: number, OTP: code})
	if err != nil {
		t.Fatalf("Verify(%q, %q) error = %v", number, code, err)
	}
	return res
}

func wantStatus(t *testing.T, got *entity.VerifyResult, want entity.VerifyStatus) {
	t.Helper()

	if got.Status != want {
		t.Fatalf("Verify() status = %s, want %s (message %q)", got.Status, want, got.Message())
	}
}

func TestIssueChallenge_StoresAndSends(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.issue(t, "01712345678", "482913")

	if res.Status != entity.IssueChallengeCreated || res.Message != "OTP sent successfully via SMS" {
		t.Fatalf("IssueChallenge() = %+v", res)
	}
	if res.RequestID != "req-+8801712345678" || res.ExpiresIn != 5*time.Minute {
		t.Fatalf("IssueChallenge() = %+v", res)
	}

	stored, err := h.store.Get(context.Background(), "+8801712345678")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Code != "482913" || !stored.CreatedAt.Equal(t0) || !stored.ExpiresAt.Equal(t0.Add(300*time.Second)) {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.Verified || stored.Attempts != 0 {
		t.Fatalf("stored state = %+v", stored)
	}

	if len(h.gateway.sent) != 1 {
		t.Fatalf("sent = %d messages", len(h.gateway.sent))
	}
	sms := h.gateway.sent[0]
	if sms.to != "+8801712345678" || sms.body != "Your OTP is 482913. Valid for 5 minutes. Do not share with anyone." {
		t.Fatalf("sms = %+v", sms)
	}

	if len(h.events.issued) != 1 || !h.events.issued[0].Delivered {
		t.Fatalf("issued events = %+v", h.events.issued)
	}
}

func TestIssueChallenge_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		phone string
		msg   string
	}{
		{name: "empty", phone: "", msg: "Phone number is required"},
		{name: "blank", phone: "   ", msg: "Phone number is required"},
		{name: "operator digit", phone: "01212345678", msg: "Invalid Bangladesh phone number format. Use +8801XXXXXXXXX"},
		{name: "too short", phone: "0171234567", msg: "Invalid Bangladesh phone number format. Use +8801XXXXXXXXX"},
		{name: "foreign", phone: "+14155550100", msg: "Invalid Bangladesh phone number format. Use +8801XXXXXXXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			_, err := h.uc.IssueChallenge(context.Background(), IssueChallengeInput{PhoneNumber: tt.phone})

			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("IssueChallenge() error = %v, want goerror", err)
			}
			if gerr.Type() != goerror.TypeValidation || gerr.StatusCode() != http.StatusUnprocessableEntity {
				t.Fatalf("error type = %s status = %d", gerr.Type(), gerr.StatusCode())
			}
			if gerr.Msg() != tt.msg {
				t.Fatalf("Msg() = %q, want %q", gerr.Msg(), tt.msg)
			}
			if len(h.gateway.sent) != 0 {
				t.Fatal("gateway called for invalid input")
			}
		})
	}
}

func TestIssueChallenge_ReissueInvalidatesPrevious(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "+8801712345678", "111111")
	h.clock.Advance(30 * time.Second)
	h.issue(t, "8801712345678", "222222")

	res := h.verify(t, "01712345678", "111111")
	wantStatus(t, res, entity.VerifyMismatch)
	if res.RemainingAttempts != 2 {
		t.Fatalf("RemainingAttempts = %d, want 2", res.RemainingAttempts)
	}

	wantStatus(t, h.verify(t, "01712345678", "222222"), entity.VerifyVerified)
}

func TestIssueChallenge_ReissueResetsAttempts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "111111")
	h.verify(t, "01712345678", "000000")
	h.verify(t, "01712345678", "000000")

	h.issue(t, "01712345678", "222222")
	res := h.verify(t, "01712345678", "000000")
	if res.RemainingAttempts != 2 {
		t.Fatalf("RemainingAttempts after reissue = %d, want 2", res.RemainingAttempts)
	}
}

func TestIssueChallenge_DeliveryFailureKeepsChallenge(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gateway.err = &DeliveryError{Reason: "Could not reach SMS gateway", Err: context.DeadlineExceeded}

	res := h.issue(t, "01812345678", "765432")
	if res.Status != entity.IssueDeliveryFailed || res.Success() {
		t.Fatalf("IssueChallenge() = %+v", res)
	}
	if res.Message != "SMS delivery failed: Could not reach SMS gateway" {
		t.Fatalf("Message = %q", res.Message)
	}
	if h.gateway.sent[0].to != "+8801812345678" {
		t.Fatalf("sent to %q", h.gateway.sent[0].to)
	}
	if len(h.events.issued) != 1 || h.events.issued[0].Delivered {
		t.Fatalf("issued events = %+v", h.events.issued)
	}

	wantStatus(t, h.verify(t, "+8801812345678", "765432"), entity.VerifyVerified)
}

func TestIssueChallenge_DeliveryFailureUnknownReason(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.gateway.err = errors.New("boom")

	res := h.issue(t, "01812345678")
	if res.Message != "SMS delivery failed: Unknown error" {
		t.Fatalf("Message = %q", res.Message)
	}
}

type failingStore struct {
	*memory.Memory
	putErr    error
	updateErr error
}

func (s *failingStore) Put(ctx context.Context, c entity.Challenge) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.Memory.Put(ctx, c)
}

func (s *failingStore) UpdateAttempts(ctx context.Context, c entity.Challenge, n int) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Memory.UpdateAttempts(ctx, c, n)
}

func TestIssueChallenge_StoreFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.uc.store = &failingStore{Memory: h.store, putErr: errors.New("redis: connection refused")}

	_, err := h.uc.IssueChallenge(context.Background(), IssueChallengeInput{PhoneNumber: "01712345678"})
	if !goerror.IsType(err, goerror.TypeServer) {
		t.Fatalf("IssueChallenge() error = %v, want server error", err)
	}
	if len(h.gateway.sent) != 0 {
		t.Fatal("gateway called after store failure")
	}
}

func TestVerify_CorrectThenAlreadyUsed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")
	h.clock.Advance(time.Minute)

	res := h.verify(t, "01712345678", "482913")
	wantStatus(t, res, entity.VerifyVerified)
	if res.Message() != "OTP verified successfully!" {
		t.Fatalf("Message() = %q", res.Message())
	}

	stored, err := h.store.Get(context.Background(), "+8801712345678")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !stored.Verified || stored.VerifiedAt == nil || !stored.VerifiedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("stored = %+v", stored)
	}
	if len(h.events.verified) != 1 {
		t.Fatalf("verified events = %+v", h.events.verified)
	}

	wantStatus(t, h.verify(t, "01712345678", "482913"), entity.VerifyAlreadyUsed)

	// already used wins over expiry and leaves the record alone
	h.clock.Advance(time.Hour)
	wantStatus(t, h.verify(t, "01712345678", "482913"), entity.VerifyAlreadyUsed)
	if _, err := h.store.Get(context.Background(), "+8801712345678"); err != nil {
		t.Fatalf("Get() after AlreadyUsed error = %v", err)
	}
}

func TestVerify_AttemptBudget(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")

	for i, want := range []int{2, 1, 0} {
		res := h.verify(t, "01712345678", "000000")
		wantStatus(t, res, entity.VerifyMismatch)
		if res.RemainingAttempts != want {
			t.Fatalf("attempt %d RemainingAttempts = %d, want %d", i+1, res.RemainingAttempts, want)
		}
	}

	// the correct code no longer helps once the budget is spent
	res := h.verify(t, "01712345678", "482913")
	wantStatus(t, res, entity.VerifyAttemptsExhausted)
	if res.Message() != "Too many failed attempts. Please request a new OTP." {
		t.Fatalf("Message() = %q", res.Message())
	}

	wantStatus(t, h.verify(t, "01712345678", "482913"), entity.VerifyNotFound)
}

func TestVerify_ExpiredScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "+8801712345678", "482913")

	res := h.verify(t, "+8801712345678", "482914")
	wantStatus(t, res, entity.VerifyMismatch)
	if res.RemainingAttempts != 2 {
		t.Fatalf("RemainingAttempts = %d, want 2", res.RemainingAttempts)
	}
	stored, _ := h.store.Get(context.Background(), "+8801712345678")
	if stored.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", stored.Attempts)
	}

	h.clock.Set(t0.Add(301 * time.Second))
	wantStatus(t, h.verify(t, "+8801712345678", "482913"), entity.VerifyExpired)

	if _, err := h.store.Get(context.Background(), "+8801712345678"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
	wantStatus(t, h.verify(t, "+8801712345678", "482913"), entity.VerifyNotFound)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")

	h.clock.Set(t0.Add(5 * time.Minute))
	wantStatus(t, h.verify(t, "01712345678", "482913"), entity.VerifyVerified)
}

func TestVerify_ExpiryPrecedesBudget(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")
	for range 3 {
		h.verify(t, "01712345678", "000000")
	}

	h.clock.Advance(10 * time.Minute)
	wantStatus(t, h.verify(t, "01712345678", "482913"), entity.VerifyExpired)
}

func TestVerify_NotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.verify(t, "01712345678", "123456")
	wantStatus(t, res, entity.VerifyNotFound)
	if res.Message() != "No OTP found for this phone number. Please request a new OTP." {
		t.Fatalf("Message() = %q", res.Message())
	}
}

func TestVerify_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		phone string
		otp   string
		msg   string
	}{
		{name: "missing both", msg: "Phone number and OTP are required"},
		{name: "missing otp", phone: "01712345678", msg: "Phone number and OTP are required"},
		{name: "missing phone", otp: "123456", msg: "Phone number and OTP are required"},
		{name: "bad phone", phone: "01112345678", otp: "123456", msg: "Invalid Bangladesh phone number format. Use +8801XXXXXXXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			_, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: tt.phone, OTP: tt.otp})

			var gerr *goerror.Error
			if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeValidation {
				t.Fatalf("Verify() error = %v, want validation error", err)
			}
			if gerr.Msg() != tt.msg {
				t.Fatalf("Msg() = %q, want %q", gerr.Msg(), tt.msg)
			}
		})
	}
}

func TestVerify_MalformedCodeCountsAsMismatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")

	res := h.verify(t, "01712345678", "48291")
	wantStatus(t, res, entity.VerifyMismatch)
	if !strings.Contains(res.Message(), "2 attempt(s) remaining") {
		t.Fatalf("Message() = %q", res.Message())
	}
}

func TestVerify_StoreFailureIsNotSwallowed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")
	h.uc.store = &failingStore{Memory: h.store, updateErr: errors.New("pg: connection reset")}

	_, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: "01712345678", OTP: "000000"})
	if !goerror.IsType(err, goerror.TypeServer) {
		t.Fatalf("Verify() error = %v, want server error", err)
	}
}

type conflictingStore struct {
	*memory.Memory
}

func (s *conflictingStore) UpdateAttempts(context.Context, entity.Challenge, int) error {
	return goerror.ErrConflict
}

func TestVerify_PersistentConflict(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")
	h.uc.store = &conflictingStore{Memory: h.store}

	_, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: "01712345678", OTP: "000000"})
	if !goerror.IsType(err, goerror.TypeServer) || !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("Verify() error = %v, want server error wrapping conflict", err)
	}
}

func TestVerify_ConcurrentCorrectCodeVerifiesOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")

	const workers = 16
	results := make(chan entity.VerifyStatus, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: "01712345678", OTP: "482913"})
			if err != nil {
				t.Errorf("Verify() error = %v", err)
				return
			}
			results <- res.Status
		}()
	}
	wg.Wait()
	close(results)

	counts := map[entity.VerifyStatus]int{}
	for st := range results {
		counts[st]++
	}
	if counts[entity.VerifyVerified] != 1 || counts[entity.VerifyAlreadyUsed] != workers-1 {
		t.Fatalf("outcomes = %v", counts)
	}
}

func TestVerify_ConcurrentWrongCodesRespectBudget(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.issue(t, "01712345678", "482913")

	const workers = 10
	results := make(chan *entity.VerifyResult, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.uc.Verify(context.Background(), VerifyInput{PhoneNumber: "01712345678", OTP: "000000"})
			if err != nil {
				// losing every CAS round is possible under heavy contention
				if !errors.Is(err, goerror.ErrConflict) {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	mismatches := 0
	seen := map[int]bool{}
	for res := range results {
		if res.Status == entity.VerifyMismatch {
			mismatches++
			if seen[res.RemainingAttempts] {
				t.Fatalf("RemainingAttempts %d reported twice", res.RemainingAttempts)
			}
			seen[res.RemainingAttempts] = true
		}
	}
	if mismatches > 3 {
		t.Fatalf("mismatches = %d, budget is 3", mismatches)
	}

	if stored, err := h.store.Get(context.Background(), "+8801712345678"); err == nil && stored.Attempts > 3 {
		t.Fatalf("Attempts = %d, exceeds budget", stored.Attempts)
	}
}

func TestSweepExpired(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	archive := &fakeArchive{}
	h.uc.archive = archive

	h.issue(t, "01712345678")
	h.clock.Advance(4 * time.Minute)
	h.issue(t, "01812345678")
	h.clock.Advance(2 * time.Minute)

	res, err := h.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if res.Deleted != 1 || res.Skipped || res.Archived == "" {
		t.Fatalf("SweepExpired() = %+v", res)
	}
	if len(archive.saved) != 1 || archive.saved[0][0].PhoneNumber != "+8801712345678" {
		t.Fatalf("archived = %+v", archive.saved)
	}

	wantStatus(t, h.verify(t, "01712345678", "000000"), entity.VerifyNotFound)
	wantStatus(t, h.verify(t, "01812345678", "000000"), entity.VerifyMismatch)
}

func TestSweepExpired_ArchiveFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.uc.archive = &fakeArchive{err: errors.New("s3: access denied")}

	h.issue(t, "01712345678")
	h.clock.Advance(time.Hour)

	res, err := h.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if res.Deleted != 1 || res.Archived != "" {
		t.Fatalf("SweepExpired() = %+v", res)
	}
}

func TestSweepExpired_SkipsWhenRunning(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.uc.sweeping.Store(true)

	res, err := h.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if !res.Skipped {
		t.Fatalf("SweepExpired() = %+v, want skipped", res)
	}
}

func TestConsumeSweepRequested_Deduplicates(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	archive := &fakeArchive{}
	h.uc.archive = archive
	ctx := context.Background()

	h.issue(t, "01712345678")
	h.clock.Advance(time.Hour)

	if err := h.uc.ConsumeSweepRequested(ctx, SweepRequestedInput{MessageID: "m-1"}); err != nil {
		t.Fatalf("ConsumeSweepRequested() error = %v", err)
	}

	h.issue(t, "01812345678")
	h.clock.Advance(time.Hour)

	if err := h.uc.ConsumeSweepRequested(ctx, SweepRequestedInput{MessageID: "m-1"}); err != nil {
		t.Fatalf("redelivered ConsumeSweepRequested() error = %v", err)
	}
	if len(archive.saved) != 1 {
		t.Fatalf("sweeps run = %d, want 1", len(archive.saved))
	}

	if err := h.uc.ConsumeSweepRequested(ctx, SweepRequestedInput{MessageID: "m-2"}); err != nil {
		t.Fatalf("ConsumeSweepRequested() error = %v", err)
	}
	if len(archive.saved) != 2 {
		t.Fatalf("sweeps run = %d, want 2", len(archive.saved))
	}
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 200 {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode() error = %v", err)
		}
		if len(code) != 6 || strings.Trim(code, "0123456789") != "" {
			t.Fatalf("generateCode() = %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 190 {
		t.Fatalf("only %d distinct codes out of 200", len(seen))
	}
}

func TestSMSBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 5, want: "Your OTP is 482913. Valid for 5 minutes. Do not share with anyone."},
		{minutes: 1, want: "Your OTP is 482913. Valid for 1 minute. Do not share with anyone."},
		{minutes: 10, want: "Your OTP is 482913. Valid for 10 minutes. Do not share with anyone."},
	}

	for _, tt := range tests {
		if got := smsBody("482913", tt.minutes); got != tt.want {
			t.Errorf("smsBody(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
