package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

type ucConsumer interface {
	ConsumeSweepRequested(ctx context.Context, in usecase.SweepRequestedInput) error
}

type ucScheduler interface {
	SweepExpired(ctx context.Context) (*entity.SweepResult, error)
}

type uc interface {
	ucConsumer
	ucScheduler

	IssueChallenge(ctx context.Context, in usecase.IssueChallengeInput) (*entity.IssueResult, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*entity.VerifyResult, error)
}
