package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/storage"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const contentType = "application/x-ndjson"

// record is one swept challenge. The code is never written.
type record struct {
	PhoneNumber string     `json:"phone_number"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	Attempts    int        `json:"attempts"`
}

type Archive struct {
	client storage.Storage
	prefix string
	ins    instrument.Instrumentation
}

func New(client storage.Storage, prefix string, ins instrument.Instrumentation) *Archive {
	return &Archive{client: client, prefix: strings.Trim(prefix, "/"), ins: ins}
}

// SaveSweep uploads removed as JSON lines under <prefix>/<yyyy>/<mm>/<dd>/<unixnano>.jsonl
// and returns the object key.
func (a *Archive) SaveSweep(ctx context.Context, at time.Time, removed []entity.Challenge) (_ string, err error) {
	ctx, span := a.ins.Tracer("verification.outbound.archive").Start(ctx, "SaveSweep")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	records := lo.Map(removed, func(c entity.Challenge, _ int) record {
		return record{
			PhoneNumber: c.PhoneNumber,
			CreatedAt:   c.CreatedAt,
			ExpiresAt:   c.ExpiresAt,
			Verified:    c.Verified,
			VerifiedAt:  c.VerifiedAt,
			Attempts:    c.Attempts,
		}
	})
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return "", err
		}
	}

	key := a.key(at)
	span.SetAttributes(attribute.String("archive.key", key), attribute.Int("archive.count", len(removed)))

	info, err := a.client.Put(ctx, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: contentType,
		Metadata:    map[string]string{"count": strconv.Itoa(len(removed))},
	})
	if err != nil {
		return "", err
	}

	return info.Key, nil
}

func (a *Archive) key(at time.Time) string {
	at = at.UTC()
	name := strconv.FormatInt(at.UnixNano(), 10) + ".jsonl"
	return path.Join(a.prefix, at.Format("2006/01/02"), name)
}
