package phone

import (
	"errors"
	"regexp"
	"strings"
)

// CountryPrefix is the international prefix every canonical number starts with.
const CountryPrefix = "+880"

var (
	// ErrEmpty is returned when the input is blank.
	ErrEmpty = errors.New("phone: number is required")
	// ErrInvalidFormat is returned when the input matches none of the accepted shapes.
	ErrInvalidFormat = errors.New("phone: invalid Bangladesh phone number format")
)

// group 1 is the accepted prefix, group 2 the operator digit plus subscriber number.
var reMobile = regexp.MustCompile(`^(\+8801|8801|01)([3-9]\d{8})$`)

// Normalize returns the canonical +8801XXXXXXXXX form of input.
//
// It is idempotent: normalizing an already canonical number returns it
// unchanged.
func Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrEmpty
	}

	m := reMobile.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidFormat
	}

	return CountryPrefix + "1" + m[2], nil
}

// IsValid reports whether input is an accepted Bangladesh mobile number.
func IsValid(input string) bool {
	_, err := Normalize(input)
	return err == nil
}

// TelURI formats a canonical number as a tel: URI, as most SMS gateways expect.
func TelURI(canonical string) string {
	return "tel:" + canonical
}

// Mask hides the subscriber digits of a number for logs, keeping the operator
// prefix and the last three digits.
func Mask(number string) string {
	if len(number) < 8 {
		return strings.Repeat("*", len(number))
	}

	return number[:len(number)-8] + "*****" + number[len(number)-3:]
}
