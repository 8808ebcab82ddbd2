// Package sms defines the contract for sending text messages and provides the
// Applink BD HTTP client plus a log-only driver for local development.
//
// Callers depend on the SMS interface. Any transport failure, timeout or
// non-success vendor status comes back as an error; vendor status codes are
// only exposed for logging through RejectedError.
package sms
