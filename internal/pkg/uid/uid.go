// Package uid generates identifiers.
//
// StringID is used for correlation ids and request ids, NumberID for
// time-ordered numeric ids such as event ids.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
