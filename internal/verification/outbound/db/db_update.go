package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// the row must still be the exact unverified state the caller read
const whereUnchanged = `WHERE phone_number = $1 AND created_at = $2 AND code = $3 AND attempts = $4 AND verified = FALSE`

func (s *DB) UpdateAttempts(ctx context.Context, current entity.Challenge, attempts int) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAttempts")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE otp_challenges SET attempts = $5 `+whereUnchanged,
		current.PhoneNumber, current.CreatedAt, current.Code, current.Attempts, attempts)
	return s.expectOne(tag, err)
}

func (s *DB) MarkVerified(ctx context.Context, current entity.Challenge, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE otp_challenges SET verified = TRUE, verified_at = $5 `+whereUnchanged,
		current.PhoneNumber, current.CreatedAt, current.Code, current.Attempts, at)
	return s.expectOne(tag, err)
}

func (s *DB) expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() != 1 {
		return goerror.ErrConflict
	}
	return nil
}
