package cache

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpgate/internal/verification/entity"
)

func micros(t time.Time) string {
	return strconv.FormatInt(t.UnixMicro(), 10)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func encode(c entity.Challenge) map[string]any {
	fields := map[string]any{
		fieldCode:      c.Code,
		fieldCreatedAt: micros(c.CreatedAt),
		fieldExpiresAt: micros(c.ExpiresAt),
		fieldVerified:  flag(c.Verified),
		fieldAttempts:  strconv.Itoa(c.Attempts),
	}
	if c.VerifiedAt != nil {
		fields[fieldVerifiedAt] = micros(*c.VerifiedAt)
	}
	return fields
}

func decode(phone string, fields map[string]string) (entity.Challenge, error) {
	c := entity.Challenge{
		PhoneNumber: phone,
		Code:        fields[fieldCode],
		Verified:    fields[fieldVerified] == "1",
	}

	var err error
	if c.CreatedAt, err = parseMicros(fields[fieldCreatedAt]); err != nil {
		return c, fmt.Errorf("cache: decode %s: %w", fieldCreatedAt, err)
	}
	if c.ExpiresAt, err = parseMicros(fields[fieldExpiresAt]); err != nil {
		return c, fmt.Errorf("cache: decode %s: %w", fieldExpiresAt, err)
	}
	if c.Attempts, err = strconv.Atoi(fields[fieldAttempts]); err != nil {
		return c, fmt.Errorf("cache: decode %s: %w", fieldAttempts, err)
	}
	if raw, ok := fields[fieldVerifiedAt]; ok && raw != "" {
		at, err := parseMicros(raw)
		if err != nil {
			return c, fmt.Errorf("cache: decode %s: %w", fieldVerifiedAt, err)
		}
		c.VerifiedAt = &at
	}

	return c, nil
}

func parseMicros(raw string) (time.Time, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(n).UTC(), nil
}
