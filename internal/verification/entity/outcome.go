package entity

import (
	"strconv"
	"time"
)

// IssueStatus is the result of issuing a challenge.
type IssueStatus int

const (
	// IssueChallengeCreated means the challenge was stored and the gateway accepted the SMS.
	IssueChallengeCreated IssueStatus = iota + 1
	// IssueDeliveryFailed means the challenge was stored but the SMS was not delivered.
	// The stored challenge stays valid.
	IssueDeliveryFailed
)

func (s IssueStatus) String() string {
	switch s {
	case IssueChallengeCreated:
		return "challenge_created"
	case IssueDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// IssueResult describes an issued challenge. It never carries the code.
type IssueResult struct {
	Status    IssueStatus
	Message   string
	RequestID string
	ExpiresIn time.Duration
}

// Success reports whether the SMS went out.
func (r IssueResult) Success() bool {
	return r.Status == IssueChallengeCreated
}

// VerifyStatus is the result of a verification attempt.
type VerifyStatus int

const (
	VerifyNotFound VerifyStatus = iota + 1
	VerifyAlreadyUsed
	VerifyExpired
	VerifyAttemptsExhausted
	VerifyMismatch
	VerifyVerified
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyNotFound:
		return "not_found"
	case VerifyAlreadyUsed:
		return "already_used"
	case VerifyExpired:
		return "expired"
	case VerifyAttemptsExhausted:
		return "attempts_exhausted"
	case VerifyMismatch:
		return "mismatch"
	case VerifyVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// VerifyResult describes a verification attempt.
// RemainingAttempts is only meaningful for VerifyMismatch.
type VerifyResult struct {
	Status            VerifyStatus
	RemainingAttempts int
}

// Success reports whether the code was accepted.
func (r VerifyResult) Success() bool {
	return r.Status == VerifyVerified
}

// Message is the user-facing text for the result.
func (r VerifyResult) Message() string {
	switch r.Status {
	case VerifyNotFound:
		return "No OTP found for this phone number. Please request a new OTP."
	case VerifyAlreadyUsed:
		return "OTP already used. Please request a new OTP."
	case VerifyExpired:
		return "OTP has expired. Please request a new OTP."
	case VerifyAttemptsExhausted:
		return "Too many failed attempts. Please request a new OTP."
	case VerifyMismatch:
		return "Invalid OTP. " + strconv.Itoa(r.RemainingAttempts) + " attempt(s) remaining."
	case VerifyVerified:
		return "OTP verified successfully!"
	default:
		return "Unknown verification result."
	}
}

// SweepResult describes one run of the expiry sweep.
type SweepResult struct {
	Deleted  int
	Skipped  bool
	Archived string
}
