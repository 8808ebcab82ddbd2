package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// Delete removes current. A missing row is not an error; a row from a newer
// issue is a conflict.
func (s *DB) Delete(ctx context.Context, current entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM otp_challenges WHERE phone_number = $1 AND created_at = $2 AND code = $3`,
		current.PhoneNumber, current.CreatedAt, current.Code)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var createdAt time.Time
	err = s.conn.QueryRow(ctx, `SELECT created_at FROM otp_challenges WHERE phone_number = $1`, current.PhoneNumber).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return s.mapError(err)
	}
	return goerror.ErrConflict
}

// DeleteExpired removes every challenge whose expiry is strictly before before.
func (s *DB) DeleteExpired(ctx context.Context, before time.Time) (_ []entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpired")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`DELETE FROM otp_challenges WHERE expires_at < $1 RETURNING `+challengeColumns, before)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var removed []entity.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return removed, s.mapError(err)
		}
		removed = append(removed, c)
	}

	return removed, s.mapError(rows.Err())
}

func (s *DB) Close() error {
	return nil
}
