// Package cache stores challenges in Redis. Each challenge is a hash keyed by
// phone number; a sorted set scored by expiry lets the sweep find expired
// records without scanning the keyspace. Conditional writes run as Lua
// scripts so the compare and the write are atomic.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPrefix    = "verification:challenge:"
	defaultRetention = 24 * time.Hour
	sweepBatch       = 500

	fieldCode       = "code"
	fieldCreatedAt  = "created_at"
	fieldExpiresAt  = "expires_at"
	fieldVerified   = "verified"
	fieldAttempts   = "attempts"
	fieldVerifiedAt = "verified_at"
)

// KEYS[1] challenge hash
// ARGV[1..3] expected created_at, code, attempts; ARGV[4..] field/value pairs
// A verified challenge is never written again.
var updateScript = redis.NewScript(`
local cur = redis.call('HMGET', KEYS[1], 'created_at', 'code', 'verified', 'attempts')
if not cur[1] then return 0 end
if cur[3] ~= '0' then return 0 end
if cur[1] ~= ARGV[1] or cur[2] ~= ARGV[2] or cur[4] ~= ARGV[3] then return 0 end
redis.call('HSET', KEYS[1], unpack(ARGV, 4))
return 1
`)

// KEYS[1] challenge hash, KEYS[2] expiry index
// ARGV[1] expected created_at, ARGV[2] phone number, ARGV[3] expected code
var deleteScript = redis.NewScript(`
local cur = redis.call('HMGET', KEYS[1], 'created_at', 'code')
if not cur[1] then
  redis.call('ZREM', KEYS[2], ARGV[2])
  return 1
end
if cur[1] ~= ARGV[1] or cur[2] ~= ARGV[3] then return 0 end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
return 1
`)

// KEYS[1] expiry index
// ARGV[1] exclusive upper bound, ARGV[2] key prefix, ARGV[3] batch size
var sweepScript = redis.NewScript(`
local phones = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1], 'LIMIT', 0, tonumber(ARGV[3]))
local out = {}
for _, p in ipairs(phones) do
  local k = ARGV[2] .. p
  local h = redis.call('HGETALL', k)
  redis.call('ZREM', KEYS[1], p)
  if #h > 0 then
    redis.call('DEL', k)
    table.insert(out, p)
    table.insert(out, h)
  end
end
return {#phones, out}
`)

type Config struct {
	// Prefix namespaces every key. Defaults to "verification:challenge:".
	Prefix string
	// Retention keeps a record this long past its expiry so a late Verify
	// still reports Expired. Defaults to 24h.
	Retention time.Duration
}

type Cache struct {
	client    redis.UniversalClient
	prefix    string
	indexKey  string
	retention time.Duration
	ins       instrument.Instrumentation
}

func New(client redis.UniversalClient, cfg Config, ins instrument.Instrumentation) *Cache {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}

	return &Cache{
		client:    client,
		prefix:    cfg.Prefix,
		indexKey:  cfg.Prefix + "index:expiry",
		retention: cfg.Retention,
		ins:       ins,
	}
}

func (s *Cache) key(phone string) string {
	return s.prefix + phone
}

func (s *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.outbound.cache").Start(ctx, name)
}

func (s *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Cache) Put(ctx context.Context, c entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	// never shorter than the retention, even for records already expired
	ttl := max(time.Until(c.ExpiresAt), 0) + s.retention

	key := s.key(c.PhoneNumber)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, encode(c))
		p.PExpire(ctx, key, ttl)
		p.ZAdd(ctx, s.indexKey, redis.Z{Score: float64(c.ExpiresAt.UnixMicro()), Member: c.PhoneNumber})
		return nil
	})
	return err
}

func (s *Cache) Get(ctx context.Context, phone string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer func() { s.endSpan(span, err) }()

	fields, err := s.client.HGetAll(ctx, s.key(phone)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}

	c, err := decode(phone, fields)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Cache) UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAttempts")
	defer func() { s.endSpan(span, err) }()

	return s.update(ctx, current, fieldAttempts, strconv.Itoa(attempts))
}

func (s *Cache) MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	return s.update(ctx, current, fieldVerified, "1", fieldVerifiedAt, micros(at))
}

func (s *Cache) update(ctx context.Context, current entity.Challenge, pairs ...string) error {
	args := []any{micros(current.CreatedAt), current.Code, strconv.Itoa(current.Attempts)}
	for _, p := range pairs {
		args = append(args, p)
	}

	ok, err := updateScript.Run(ctx, s.client, []string{s.key(current.PhoneNumber)}, args...).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return goerror.ErrConflict
	}
	return nil
}

func (s *Cache) Delete(ctx context.Context, current entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	ok, err := deleteScript.Run(ctx, s.client,
		[]string{s.key(current.PhoneNumber), s.indexKey},
		micros(current.CreatedAt), current.PhoneNumber, current.Code,
	).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return goerror.ErrConflict
	}
	return nil
}

func (s *Cache) DeleteExpired(ctx context.Context, before time.Time) (_ []entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpired")
	defer func() { s.endSpan(span, err) }()

	var removed []entity.Challenge
	for {
		res, err := sweepScript.Run(ctx, s.client, []string{s.indexKey}, micros(before), s.prefix, sweepBatch).Slice()
		if err != nil {
			return removed, err
		}

		scanned, items, err := parseSweep(res)
		if err != nil {
			return removed, err
		}
		removed = append(removed, items...)

		if scanned < sweepBatch {
			return removed, nil
		}
	}
}

func parseSweep(res []any) (int64, []entity.Challenge, error) {
	if len(res) != 2 {
		return 0, nil, errors.New("cache: unexpected sweep reply")
	}
	scanned, ok := res[0].(int64)
	if !ok {
		return 0, nil, errors.New("cache: unexpected sweep count")
	}
	flat, _ := res[1].([]any)

	items := make([]entity.Challenge, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		phone, _ := flat[i].(string)
		pairs, _ := flat[i+1].([]any)

		fields := make(map[string]string, len(pairs)/2)
		for j := 0; j+1 < len(pairs); j += 2 {
			k, _ := pairs[j].(string)
			v, _ := pairs[j+1].(string)
			fields[k] = v
		}

		c, err := decode(phone, fields)
		if err != nil {
			return scanned, items, err
		}
		items = append(items, c)
	}
	return scanned, items, nil
}
