package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/tessro/convoy/internal/errors"
)

func testClient(url string) *Client {
	c := NewClient(url, time.Second, zerolog.Nop())
	c.retryWait = time.Millisecond
	return c
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{"no params", "/route", nil, "/route"},
		{"empty params", "/route", map[string]string{}, "/route"},
		{"single param", "/route", map[string]string{"steps": "true"}, "/route?steps=true"},
		{"sorted params", "/route", map[string]string{"steps": "true", "overview": "full"}, "/route?overview=full&steps=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.path, tt.params); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: 400, Code: "InvalidQuery", Message: "Query string malformed"}

	expected := "routing error 400 InvalidQuery: Query string malformed"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
	if !errors.Is(err, cerrors.ErrRoutingService) {
		t.Error("APIError should match ErrRoutingService")
	}
	if errors.Is(err, cerrors.ErrNoRoute) {
		t.Error("InvalidQuery should not match ErrNoRoute")
	}
}

func TestIsNoRouteError(t *testing.T) {
	err := error(&APIError{Status: 400, Code: "NoRoute"})
	if !IsNoRouteError(err) {
		t.Error("IsNoRouteError() = false, want true")
	}
	if !errors.Is(err, cerrors.ErrNoRoute) {
		t.Error("errors.Is(NoRoute, ErrNoRoute) = false, want true")
	}
	if IsNoRouteError(errors.New("boom")) {
		t.Error("IsNoRouteError(plain) = true, want false")
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"code":"Ok"}`))
	}))
	defer srv.Close()

	var resp RouteResponse
	if err := testClient(srv.URL).Get(context.Background(), "/x", nil, &resp); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.Code != "Ok" {
		t.Errorf("Code = %q, want %q", resp.Code, "Ok")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := testClient(srv.URL).Get(context.Background(), "/x", nil, nil)
	if err == nil {
		t.Fatal("Get() error = nil, want error")
	}
	if got := calls.Load(); got != maxRetries+1 {
		t.Errorf("calls = %d, want %d", got, maxRetries+1)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("error = %v, want wrapped 503 APIError", err)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).Get(context.Background(), "/x", nil, nil)
	if !errors.Is(err, cerrors.ErrNoRoute) {
		t.Errorf("error = %v, want ErrNoRoute", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestGetMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":`))
	}))
	defer srv.Close()

	var resp RouteResponse
	if err := testClient(srv.URL).Get(context.Background(), "/x", nil, &resp); err == nil {
		t.Error("Get() error = nil, want parse error")
	}
}

func TestGetNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := testClient(url).Get(context.Background(), "/x", nil, nil)
	if !errors.Is(err, cerrors.ErrNetworkError) {
		t.Errorf("error = %v, want ErrNetworkError", err)
	}
}

func TestGetCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.retryWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := c.Get(ctx, "/x", nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
