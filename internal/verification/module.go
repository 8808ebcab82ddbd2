package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/sms"
	"github.com/shandysiswandi/otpgate/internal/pkg/storage"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/inbound"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/archive"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/cache"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/memory"
	"github.com/shandysiswandi/otpgate/internal/verification/outbound/mq"
	outsms "github.com/shandysiswandi/otpgate/internal/verification/outbound/sms"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var (
	ErrUnknownStore  = errors.New("verification: unknown store driver")
	ErrStoreNotReady = errors.New("verification: store driver needs a connection that is not configured")
)

type Dependency struct {
	// Ctx bounds background consumers and the sweep schedule. Nil disables both.
	Ctx context.Context

	DBConn      *pgxpool.Pool
	CacheConn   redis.UniversalClient
	Storage     storage.Storage
	Idempotency idempotency.Idempotency

	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	SMS        sms.SMS                    `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

type challengeStore interface {
	Put(ctx context.Context, c entity.Challenge) error
	Get(ctx context.Context, phone string) (*entity.Challenge, error)
	UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) error
	MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) error
	Delete(ctx context.Context, current entity.Challenge) error
	DeleteExpired(ctx context.Context, before time.Time) ([]entity.Challenge, error)
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store, err := newStore(dep)
	if err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		Store:       store,
		Gateway:     outsms.New(dep.SMS, dep.Instrument),
		Idempotency: dep.Idempotency,
		Config:      dep.Config,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		Instrument:  dep.Instrument,
	}
	if dep.Config.GetBool("modules.verification.events.enabled") {
		ucDep.Messaging = mq.NewMessaging(dep.Messaging, dep.UID, dep.Instrument)
	}
	if dep.Config.GetBool("modules.verification.reaper.archive.enabled") {
		if dep.Storage == nil {
			return errors.New("verification: sweep archive enabled without object storage")
		}
		ucDep.Archive = archive.New(dep.Storage, dep.Config.GetString("modules.verification.reaper.archive.prefix"), dep.Instrument)
	}
	if ucDep.Idempotency == nil {
		slog.Warn("verification: no redis idempotency tracker, sweep triggers deduplicate per process")
		ucDep.Idempotency = idempotency.NewMemory(dep.Clock.Now)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
		if err := inbound.RegisterScheduler(dep.Ctx, dep.Config, dep.Goroutine, dep.Clock, dep.UUID, uc, dep.Instrument); err != nil {
			return err
		}
	}

	return nil
}

func newStore(dep Dependency) (challengeStore, error) {
	driver := strings.ToLower(strings.TrimSpace(dep.Config.GetString("modules.verification.store.driver")))

	switch driver {
	case StoreMemory, "":
		return memory.New(dep.Instrument), nil
	case StoreRedis:
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotReady, driver)
		}
		return cache.New(dep.CacheConn, cache.Config{
			Prefix:    dep.Config.GetString("modules.verification.store.redis.prefix"),
			Retention: dep.Config.GetDuration("modules.verification.store.retention"),
		}, dep.Instrument), nil
	case StorePostgres:
		if dep.DBConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotReady, driver)
		}
		return db.NewDB(dep.DBConn, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, driver)
	}
}
