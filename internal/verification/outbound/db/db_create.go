package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

// Put replaces whatever challenge the phone number had.
func (s *DB) Put(ctx context.Context, c entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO otp_challenges (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone_number) DO UPDATE SET
			code        = EXCLUDED.code,
			created_at  = EXCLUDED.created_at,
			expires_at  = EXCLUDED.expires_at,
			verified    = EXCLUDED.verified,
			attempts    = EXCLUDED.attempts,
			verified_at = EXCLUDED.verified_at`,
		c.PhoneNumber, c.Code, c.CreatedAt, c.ExpiresAt, c.Verified, c.Attempts, c.VerifiedAt,
	)
	return s.mapError(err)
}
