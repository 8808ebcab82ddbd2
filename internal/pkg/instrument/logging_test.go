package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return got
}

func TestLogHandler_MasksAndEnriches(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(newLogHandler(buf, "otpgate-test", nil, []string{"OTP", "code"}))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "verify", "otp", "482913", "phone_number", "+8801712345678",
		"body", `{"phoneNumber":"+8801712345678","otp":"482913"}`)

	got := decodeLine(t, buf)
	if got["otp"] != maskedValue {
		t.Errorf("otp = %v, want masked", got["otp"])
	}
	if got["phone_number"] != "+8801712345678" {
		t.Errorf("phone_number = %v", got["phone_number"])
	}
	if got["_cID"] != "cid-123" {
		t.Errorf("_cID = %v, want cid-123", got["_cID"])
	}
	if got["service"] != "otpgate-test" {
		t.Errorf("service = %v", got["service"])
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(got["body"].(string)), &body); err != nil {
		t.Fatalf("decode masked body: %v", err)
	}
	if body["otp"] != maskedValue {
		t.Errorf("body.otp = %v, want masked", body["otp"])
	}
}

func TestLogHandler_WithAttrsMasked(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(newLogHandler(buf, "svc", nil, []string{"code"})).With("code", "000111")
	logger.Info("issued")

	if got := decodeLine(t, buf)["code"]; got != maskedValue {
		t.Fatalf("code = %v, want masked", got)
	}
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID(empty) = %q", got)
	}
	ctx := SetCorrelationID(context.Background(), "abc")
	if got := GetCorrelationID(ctx); got != "abc" {
		t.Fatalf("GetCorrelationID() = %q, want abc", got)
	}
}
