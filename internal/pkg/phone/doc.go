// Package phone validates and canonicalizes Bangladesh mobile numbers.
//
// Three input shapes are accepted for the same subscriber: the local form with
// a trunk prefix (01XXXXXXXXX), the country-code form without a plus sign
// (8801XXXXXXXXX) and the international form (+8801XXXXXXXXX). The digit that
// follows "1" identifies the operator and must be in the range 3-9.
//
// Normalize always returns the international form. Storage keys and SMS
// destination addresses both use it.
package phone
