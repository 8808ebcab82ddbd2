package event

import "time"

const ChallengeIssuedDestination string = "verification.challenge.issued"
const ChallengeVerifiedDestination string = "verification.challenge.verified"

const SweepRequestedDestination string = "verification.sweep.requested"
const SweepRequestedConsumerVerification string = "verification.sweep.requested_verification"

type ChallengeIssuedMessage struct {
	EventID     int64     `json:"event_id"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Delivered   bool      `json:"delivered"`
}

type ChallengeVerifiedMessage struct {
	EventID     int64     `json:"event_id"`
	PhoneNumber string    `json:"phone_number"`
	VerifiedAt  time.Time `json:"verified_at"`
}

type SweepRequestedMessage struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}
