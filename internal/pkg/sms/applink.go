package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	applinkStatusSuccess = "S1000"
	applinkVersion       = "1.0"
	applinkEncodingText  = "0"

	defaultApplinkBaseURL = "https://api.applink.com.bd"
	defaultApplinkTimeout = 10 * time.Second
)

// ErrApplinkCredentialsRequired is returned when the application id or password is missing.
var ErrApplinkCredentialsRequired = errors.New("sms: applink application id and password are required")

// ApplinkConfig configures the Applink client.
type ApplinkConfig struct {
	// BaseURL defaults to https://api.applink.com.bd.
	BaseURL string
	// ApplicationID is the Applink application id.
	ApplicationID string
	// Password is the Applink application password.
	Password string
	// Timeout bounds one HTTP round trip when the caller context has no
	// earlier deadline. Defaults to 10s.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after a network failure.
	MaxRetries uint64
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Applink sends SMS through the Applink BD API.
type Applink struct {
	endpoint   string
	appID      string
	password   string
	timeout    time.Duration
	maxRetries uint64
	client     *http.Client
}

type applinkRequest struct {
	Version              string   `json:"version"`
	ApplicationID        string   `json:"applicationId"`
	Password             string   `json:"password"`
	Message              string   `json:"message"`
	DestinationAddresses []string `json:"destinationAddresses"`
	Encoding             string   `json:"encoding"`
}

type applinkResponse struct {
	Version      string `json:"version"`
	RequestID    string `json:"requestId"`
	StatusCode   string `json:"statusCode"`
	StatusDetail string `json:"statusDetail"`
}

// NewApplink constructs an Applink client.
func NewApplink(cfg ApplinkConfig) (*Applink, error) {
	if cfg.ApplicationID == "" || cfg.Password == "" {
		return nil, ErrApplinkCredentialsRequired
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultApplinkBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultApplinkTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Applink{
		endpoint:   base + "/sms/send",
		appID:      cfg.ApplicationID,
		password:   cfg.Password,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		client:     client,
	}, nil
}

// Send posts the message to Applink. Only network failures are retried, and
// every attempt shares the same deadline.
func (a *Applink) Send(ctx context.Context, msg Message) (Ack, error) {
	if err := validate(msg); err != nil {
		return Ack{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(applinkRequest{
		Version:              applinkVersion,
		ApplicationID:        a.appID,
		Password:             a.password,
		Message:              msg.Body,
		DestinationAddresses: []string{"tel:" + msg.To},
		Encoding:             applinkEncodingText,
	})
	if err != nil {
		return Ack{}, fmt.Errorf("sms: encode applink request: %w", err)
	}

	backoff := retry.WithMaxRetries(a.maxRetries, retry.WithCappedDuration(2*time.Second, retry.NewFibonacci(200*time.Millisecond)))

	var ack Ack
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := a.post(ctx, payload)
		if errors.Is(err, ErrUnreachable) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		ack = res
		return err
	})
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrUnreachable) {
			return Ack{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
		}
		return Ack{}, err
	}

	return ack, nil
}

func (a *Applink) post(ctx context.Context, payload []byte) (Ack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Ack{}, fmt.Errorf("sms: build applink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return Ack{}, fmt.Errorf("%w: read body: %w", ErrUnreachable, err)
	}

	var out applinkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Ack{}, &RejectedError{
			StatusDetail: fmt.Sprintf("unexpected response status=%d", resp.StatusCode),
			HTTPStatus:   resp.StatusCode,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest || out.StatusCode != applinkStatusSuccess {
		return Ack{}, &RejectedError{
			StatusCode:   out.StatusCode,
			StatusDetail: out.StatusDetail,
			HTTPStatus:   resp.StatusCode,
		}
	}

	return Ack{RequestID: out.RequestID, Status: out.StatusCode}, nil
}

// Close releases idle connections.
func (a *Applink) Close() error {
	a.client.CloseIdleConnections()
	return nil
}
