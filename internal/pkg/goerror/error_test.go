package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "odd kv", err: NewInvalidInput(nil, "phone_number"), want: http.StatusBadRequest},
		{name: "business conflict", err: NewBusiness("busy", CodeConflict), want: http.StatusConflict},
		{name: "unavailable", err: NewBusiness("down", CodeUnavailable), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("errors.As(%v) = false", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	t.Parallel()

	err := NewInvalidInput(nil, "phone_number", "required", "otp", "required")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("errors.As() = false")
	}
	if len(gerr.Fields()) != 2 || gerr.Fields()["otp"] != "required" {
		t.Fatalf("Fields() = %v", gerr.Fields())
	}
	if !IsType(err, TypeValidation) {
		t.Fatalf("IsType(validation) = false")
	}
}

func TestNewServer_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("redis: connection refused")
	err := NewServer(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(cause) = false")
	}
	if err.Error() != cause.Error() {
		t.Fatalf("Error() = %q, want %q", err.Error(), cause.Error())
	}
	if IsType(err, TypeValidation) {
		t.Fatalf("IsType(validation) = true for server error")
	}
}

func TestNewValidation_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New(`{"phone_number":"PhoneNumber is a required field"}`)
	err := NewValidation("Phone number is required", cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("errors.As() = false")
	}
	if gerr.Msg() != "Phone number is required" {
		t.Fatalf("Msg() = %q", gerr.Msg())
	}
	if gerr.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("StatusCode() = %d", gerr.StatusCode())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(cause) = false")
	}
}
