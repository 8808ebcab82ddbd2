// Package config exposes typed read access to application configuration.
//
// Keys are dotted paths into the configuration tree, for example
// "modules.verification.challenge.ttl".
package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond reads an integer value and interprets it as seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads an integer value and interprets it as minutes.
	GetMinute(key string) time.Duration

	// GetHour reads an integer value and interprets it as hours.
	GetHour(key string) time.Duration

	// GetDuration reads a Go duration string such as "300ms" or "5m".
	// Plain integers are treated as seconds.
	GetDuration(key string) time.Duration
}

// Config defines the configuration lookups the application relies on.
// Missing keys yield the zero value of the requested type.
type Config interface {
	io.Closer
	TimeConfig

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64

	// GetArray reads a list value. Comma separated strings are split.
	GetArray(key string) []string
}
