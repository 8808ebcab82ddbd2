package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const (
	defaultTTL             = 5 * time.Minute
	defaultMaxAttempts     = 3
	defaultDeliveryTimeout = 10 * time.Second
	defaultCASRetries      = 5
)

type ChallengeIssuedEvent struct {
	PhoneNumber string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Delivered   bool
}

type ChallengeVerifiedEvent struct {
	PhoneNumber string
	VerifiedAt  time.Time
}

// DeliveryError is returned by the gateway adapter when the SMS was not accepted.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed: %s: %v", e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type repoStore interface {
	Put(ctx context.Context, c entity.Challenge) error
	Get(ctx context.Context, phone string) (*entity.Challenge, error)
	UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) error
	MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) error
	Delete(ctx context.Context, current entity.Challenge) error
	DeleteExpired(ctx context.Context, before time.Time) ([]entity.Challenge, error)
}

type repoGateway interface {
	Send(ctx context.Context, to, body string) (entity.DeliveryAck, error)
}

type repoMessaging interface {
	PublishChallengeIssued(ctx context.Context, msg ChallengeIssuedEvent) error
	PublishChallengeVerified(ctx context.Context, msg ChallengeVerifiedEvent) error
}

type repoArchive interface {
	SaveSweep(ctx context.Context, at time.Time, removed []entity.Challenge) (string, error)
}

type Usecase struct {
	store         repoStore
	gateway       repoGateway
	repoMessaging repoMessaging
	archive       repoArchive
	idemp         idempotency.Idempotency
	cfg           config.Config
	clock         clock.Clocker
	validator     validator.Validator
	ins           instrument.Instrumentation
	sweeping      *atomic.Bool
	newCode       func() (string, error)

	issuedCounter  metric.Int64Counter
	attemptCounter metric.Int64Counter
	sweptCounter   metric.Int64Counter
}

type Dependency struct {
	Store       repoStore
	Gateway     repoGateway
	Messaging   repoMessaging
	Archive     repoArchive
	Idempotency idempotency.Idempotency
	Config      config.Config
	Clock       clock.Clocker
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	meter := ins.Meter("verification.usecase")

	return &Usecase{
		store:         dep.Store,
		gateway:       dep.Gateway,
		repoMessaging: dep.Messaging,
		archive:       dep.Archive,
		idemp:         dep.Idempotency,
		cfg:           dep.Config,
		clock:         dep.Clock,
		validator:     dep.Validator,
		ins:           ins,
		sweeping:      atomic.NewBool(false),
		newCode:       generateCode,

		issuedCounter:  newCounter(meter, "verification.challenge.issued", "Issued challenges by outcome"),
		attemptCounter: newCounter(meter, "verification.attempt", "Verification attempts by outcome"),
		sweptCounter:   newCounter(meter, "verification.sweep.deleted", "Challenges removed by the expiry sweep"),
	}
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("failed to create counter, using noop", "name", name, "error", err)
		c, _ = noop.NewMeterProvider().Meter("").Int64Counter(name)
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) ttl() time.Duration {
	if d := s.cfg.GetDuration("modules.verification.challenge.ttl"); d > 0 {
		return d
	}
	return defaultTTL
}

func (s *Usecase) maxAttempts() int {
	if n := s.cfg.GetInt("modules.verification.challenge.max_attempts"); n > 0 {
		return n
	}
	return defaultMaxAttempts
}

func (s *Usecase) deliveryTimeout() time.Duration {
	if d := s.cfg.GetDuration("sms.timeout"); d > 0 {
		return d
	}
	return defaultDeliveryTimeout
}

func (s *Usecase) casRetries() uint64 {
	if n := s.cfg.GetInt("modules.verification.challenge.cas_retries"); n > 0 {
		return uint64(n)
	}
	return defaultCASRetries
}

func (s *Usecase) lockDuration() time.Duration {
	if d := s.cfg.GetDuration("modules.verification.reaper.lock_duration"); d > 0 {
		return d
	}
	return 5 * time.Minute
}

func (s *Usecase) stateTTL() time.Duration {
	if d := s.cfg.GetDuration("modules.verification.reaper.dedup_ttl"); d > 0 {
		return d
	}
	return 24 * time.Hour
}
