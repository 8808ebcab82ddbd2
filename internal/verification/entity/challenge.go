package entity

import (
	"crypto/subtle"
	"time"
)

// Challenge is the single active OTP for a phone number.
//
// CreatedAt and Code identify the challenge: conditional writes compare both
// to make sure they still act on the record they read, even when a re-issue
// lands in the same microsecond. Timestamps are kept at microsecond precision
// so they survive a Postgres round trip unchanged.
type Challenge struct {
	PhoneNumber string
	Code        string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Verified    bool
	Attempts    int
	VerifiedAt  *time.Time
}

// IsExpired reports whether now is past ExpiresAt.
func (c Challenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Matches compares code against the stored code in constant time.
func (c Challenge) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}

// SameChallenge reports whether o is the same issuance as c.
func (c Challenge) SameChallenge(o Challenge) bool {
	return c.PhoneNumber == o.PhoneNumber && c.CreatedAt.Equal(o.CreatedAt) && c.Code == o.Code
}

// Unchanged reports whether o is the same issuance with the same mutable state
// as c.
func (c Challenge) Unchanged(o Challenge) bool {
	return c.SameChallenge(o) && c.Verified == o.Verified && c.Attempts == o.Attempts
}

// Writable reports whether a conditional write planned against o may change c.
// A verified challenge is final.
func (c Challenge) Writable(o Challenge) bool {
	return !c.Verified && c.Unchanged(o)
}

// DeliveryAck is the gateway acknowledgement of a sent OTP.
type DeliveryAck struct {
	RequestID string
}
