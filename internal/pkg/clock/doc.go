// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly, so
// tests can move time with Manual.
package clock
