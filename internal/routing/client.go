// Package routing talks to an OSRM-compatible routing service.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/tessro/convoy/internal/errors"
)

const (
	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client is an HTTP client for an OSRM-compatible service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
	retryWait  time.Duration
}

// NewClient creates a client for baseURL. timeout bounds each attempt.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "routing").Logger(),
		retryWait:  baseRetryWait,
	}
}

// Get performs a GET request against the service and decodes the JSON body into result.
func (c *Client) Get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	fullURL := BuildURL(c.baseURL+path, params)
	c.logger.Debug().Str("url", fullURL).Msg("GET")

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			c.logger.Debug().Int("attempt", attempt).Dur("wait", wait).AnErr("last_error", lastErr).Msg("retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", cerrors.ErrNetworkError, err)
			c.logger.Debug().Err(err).Msg("network error")
			continue // Retry on network error
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("response")

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			lastErr = newAPIError(resp.StatusCode, body)
			c.logger.Debug().Err(lastErr).Msg("server error, will retry")
			continue
		}

		// Don't retry 4xx errors
		if resp.StatusCode >= 400 {
			return newAPIError(resp.StatusCode, body)
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// APIError is an error response from the routing service.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(status)
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("routing error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("routing error %d %s: %s", e.Status, e.Code, e.Message)
}

// Is lets errors.Is match APIError against the routing sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case cerrors.ErrNoRoute:
		return e.IsNoRoute()
	case cerrors.ErrRoutingService:
		return true
	}
	return false
}

// IsNoRoute reports whether the service found no route between the points.
func (e *APIError) IsNoRoute() bool {
	return e.Code == "NoRoute" || e.Code == "NoSegment"
}

// IsNoRouteError checks if an error is a "no route" API error.
func IsNoRouteError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsNoRoute()
	}
	return false
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
