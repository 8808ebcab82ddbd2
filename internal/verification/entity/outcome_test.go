package entity

import (
	"testing"
	"time"
)

func TestVerifyResult_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   VerifyResult
		want string
	}{
		{VerifyResult{Status: VerifyNotFound}, "No OTP found for this phone number. Please request a new OTP."},
		{VerifyResult{Status: VerifyAlreadyUsed}, "OTP already used. Please request a new OTP."},
		{VerifyResult{Status: VerifyExpired}, "OTP has expired. Please request a new OTP."},
		{VerifyResult{Status: VerifyAttemptsExhausted}, "Too many failed attempts. Please request a new OTP."},
		{VerifyResult{Status: VerifyMismatch, RemainingAttempts: 2}, "Invalid OTP. 2 attempt(s) remaining."},
		{VerifyResult{Status: VerifyMismatch, RemainingAttempts: 0}, "Invalid OTP. 0 attempt(s) remaining."},
		{VerifyResult{Status: VerifyVerified}, "OTP verified successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.in.Status.String(), func(t *testing.T) {
			if got := tt.in.Message(); got != tt.want {
				t.Fatalf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChallenge_IsExpired(t *testing.T) {
	t.Parallel()

	exp := time.Date(2024, 6, 1, 10, 5, 0, 0, time.UTC)
	c := Challenge{ExpiresAt: exp}

	if c.IsExpired(exp) {
		t.Fatal("IsExpired(at ExpiresAt) = true, want false")
	}
	if !c.IsExpired(exp.Add(time.Nanosecond)) {
		t.Fatal("IsExpired(after ExpiresAt) = false, want true")
	}
}

func TestChallenge_Matches(t *testing.T) {
	t.Parallel()

	c := Challenge{Code: "012345"}
	if !c.Matches("012345") {
		t.Fatal("Matches(same) = false")
	}
	for _, in := range []string{"12345", "012346", "", "0123456"} {
		if c.Matches(in) {
			t.Fatalf("Matches(%q) = true", in)
		}
	}
}

func TestChallenge_Unchanged(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	base := Challenge{PhoneNumber: "+8801712345678", CreatedAt: at}

	if !base.Unchanged(base) {
		t.Fatal("Unchanged(self) = false")
	}

	reissued := base
	reissued.CreatedAt = at.Add(time.Second)
	if base.SameChallenge(reissued) {
		t.Fatal("SameChallenge(reissued) = true")
	}

	tried := base
	tried.Attempts = 1
	if base.Unchanged(tried) || !base.SameChallenge(tried) {
		t.Fatal("attempt change not detected")
	}

	recoded := base
	recoded.Code = "222222"
	if base.SameChallenge(recoded) {
		t.Fatal("SameChallenge(same instant, new code) = true")
	}
}

func TestChallenge_Writable(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	open := Challenge{PhoneNumber: "+8801712345678", Code: "111111", CreatedAt: at}
	if !open.Writable(open) {
		t.Fatal("Writable(self) = false for an unverified challenge")
	}

	verified := open
	verified.Verified = true
	verified.VerifiedAt = &at
	if verified.Writable(verified) {
		t.Fatal("Writable(self) = true for a verified challenge")
	}
	if verified.Writable(open) {
		t.Fatal("Writable(stale unverified read) = true for a verified challenge")
	}
}
