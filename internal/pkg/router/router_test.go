package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

type greeting struct {
	Name string `json:"name"`
}

func (greeting) Message() string { return "hello" }

type created struct{}

func (created) StatusCode() int { return http.StatusCreated }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	var cfg config.Config
	if yaml != "" {
		v, err := config.NewViperFromBytes("yaml", []byte(yaml))
		if err != nil {
			t.Fatalf("NewViperFromBytes() error = %v", err)
		}
		cfg = v
	}

	return NewRouter(Config{Config: cfg, UUID: fixedUUID("cid-1")})
}

func serve(ro *Router, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_Envelope(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "")
	ro.POST("/greet", func(r *Request) (any, error) {
		var in greeting
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})
	ro.POST("/created", func(*Request) (any, error) { return created{}, nil })
	ro.GET("/empty", func(*Request) (any, error) { return nil, nil })

	rec := serve(ro, http.MethodPost, "/greet", `{"name":"rahim"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "hello" {
		t.Fatalf("message = %v", body["message"])
	}
	if data, _ := body["data"].(map[string]any); data["name"] != "rahim" {
		t.Fatalf("data = %v", body["data"])
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-1" {
		t.Fatalf("correlation header = %q", got)
	}

	if rec := serve(ro, http.MethodPost, "/created", ``, nil); rec.Code != http.StatusCreated {
		t.Fatalf("created status = %d", rec.Code)
	}
	if rec := serve(ro, http.MethodGet, "/empty", ``, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("empty status = %d", rec.Code)
	}
}

func TestRouter_Errors(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "")
	ro.POST("/fail/:kind", func(r *Request) (any, error) {
		switch r.GetParam("kind") {
		case "business":
			return nil, goerror.NewBusiness("no active otp found", goerror.CodeNotFound)
		case "fields":
			return nil, goerror.NewInvalidInput(nil, "otp", "otp is required")
		case "plain":
			return nil, errors.New("boom")
		default:
			panic("unexpected")
		}
	})

	tests := []struct {
		kind    string
		status  int
		message string
	}{
		{kind: "business", status: http.StatusNotFound, message: "no active otp found"},
		{kind: "fields", status: http.StatusUnprocessableEntity, message: "Validation error"},
		{kind: "plain", status: http.StatusInternalServerError, message: "Internal server error"},
		{kind: "panic", status: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			t.Parallel()

			rec := serve(ro, http.MethodPost, "/fail/"+tt.kind, ``, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decode(t, rec); body["message"] != tt.message {
				t.Fatalf("message = %v, want %q", body["message"], tt.message)
			}
		})
	}
}

func TestRouter_FieldErrors(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "")
	ro.POST("/v", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "otp", "otp is required")
	})

	body := decode(t, serve(ro, http.MethodPost, "/v", ``, nil))
	fields, _ := body["error"].(map[string]any)
	if fields["otp"] != "otp is required" {
		t.Fatalf("error fields = %v", body["error"])
	}
}

func TestRouter_CorrelationIDFromHeader(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "")
	ro.GET("/ping", func(*Request) (any, error) { return greeting{}, nil })

	rec := serve(ro, http.MethodGet, "/ping", ``, http.Header{HeaderRequestID: {"from-proxy"}})
	if got := rec.Header().Get(HeaderCorrelationID); got != "from-proxy" {
		t.Fatalf("correlation header = %q, want from-proxy", got)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "")
	ro.POST("/only-post", func(*Request) (any, error) { return greeting{}, nil })

	if rec := serve(ro, http.MethodGet, "/missing", ``, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
	if rec := serve(ro, http.MethodGet, "/only-post", ``, nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("method status = %d", rec.Code)
	}
	if rec := serve(ro, http.MethodGet, "/health", ``, nil); rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestRouter_Maintenance(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, "app:\n  maintenance:\n    endpoints:\n      - /down\n")
	ro.GET("/down", func(*Request) (any, error) { return greeting{}, nil })
	ro.GET("/up", func(*Request) (any, error) { return greeting{}, nil })

	if rec := serve(ro, http.MethodGet, "/down", ``, nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("down status = %d", rec.Code)
	}
	if rec := serve(ro, http.MethodGet, "/up", ``, nil); rec.Code != http.StatusOK {
		t.Fatalf("up status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header http.Header
		remote string
		want   string
	}{
		{name: "true client ip", header: http.Header{"True-Client-Ip": {"203.0.113.7"}}, remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "forwarded first hop", header: http.Header{"X-Forwarded-For": {"198.51.100.2, 10.0.0.1"}}, remote: "10.0.0.1:1234", want: "198.51.100.2"},
		{name: "garbage header", header: http.Header{"X-Real-Ip": {"not-an-ip"}}, remote: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "bad remote", header: http.Header{}, remote: "nonsense", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header = tt.header
			r.RemoteAddr = tt.remote
			if got := clientIP(r); got != tt.want {
				t.Fatalf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanCorrelationID(t *testing.T) {
	t.Parallel()

	if got := cleanCorrelationID("a\r\nSet-Cookie: x"); got != "" {
		t.Fatalf("injection accepted: %q", got)
	}
	if got := cleanCorrelationID(strings.Repeat("x", 200)); len(got) != 128 {
		t.Fatalf("len = %d, want 128", len(got))
	}
}
