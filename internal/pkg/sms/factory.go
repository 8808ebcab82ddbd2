package sms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

const (
	// DriverApplink selects the Applink BD gateway.
	DriverApplink = "applink"
	// DriverLog selects the log-only driver.
	DriverLog = "log"
)

// ErrUnknownDriver indicates an unsupported sms driver.
var ErrUnknownDriver = errors.New("sms: unknown driver")

// FactoryOptions groups configuration for the supported drivers.
type FactoryOptions struct {
	Applink ApplinkConfig
	IDs     uid.StringID
}

// NewFromDriver constructs an SMS implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (SMS, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverApplink:
		return NewApplink(opts.Applink)
	case DriverLog:
		return NewLogger(opts.IDs), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
