package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

func (s *DB) Get(ctx context.Context, phone string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer func() { s.endSpan(span, err) }()

	c, err := scanChallenge(s.conn.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM otp_challenges WHERE phone_number = $1`, phone))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}
