package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNoRoute          = errors.New("no route found")
	ErrBadGeometry      = errors.New("route geometry has fewer than two points")
	ErrRouteTimeout     = errors.New("route request timed out")
	ErrRoutingService   = errors.New("routing service error")
	ErrUnknownPlace     = errors.New("unknown destination")
	ErrChannelClosed    = errors.New("channel closed")
	ErrUnknownTransport = errors.New("unknown channel transport")
	ErrEmptyCatalog     = errors.New("catalog is empty")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// ConvoyError wraps an error with a user-friendly suggestion.
type ConvoyError struct {
	Err        error
	Suggestion string
}

func (e *ConvoyError) Error() string {
	return e.Err.Error()
}

func (e *ConvoyError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ConvoyError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var convoyErr *ConvoyError
	if errors.As(err, &convoyErr) && convoyErr.Suggestion != "" {
		return convoyErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNoRoute) || errors.Is(err, ErrBadGeometry) {
		return "The routing service found no drivable route. Pick another destination"
	}

	if errors.Is(err, ErrRouteTimeout) {
		return "The routing service is slow to answer. Try again in a moment"
	}

	if errors.Is(err, ErrUnknownPlace) {
		return "Run 'convoy catalog' to see available destinations"
	}

	if errors.Is(err, ErrChannelClosed) || strings.Contains(errStr, "websocket") {
		return "Check that the relay is running ('convoy serve') and channel.url points at it"
	}

	if errors.Is(err, ErrUnknownTransport) {
		return "Set channel.transport to memory, websocket, redis, or nats"
	}

	if errors.Is(err, ErrEmptyCatalog) {
		return "Add at least one entry to your catalog file or remove catalog.file to use the built-in catalog"
	}

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'convoy config init' to create a configuration file"
	}

	if errors.Is(err, ErrRoutingService) || strings.Contains(errStr, "server error") {
		return "The routing service is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// UserMessage returns a short, single-line message suitable for a transient banner.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoRoute), errors.Is(err, ErrBadGeometry):
		return "No route found to that destination."
	case errors.Is(err, ErrRouteTimeout):
		return "Routing timed out. Please try again."
	default:
		return "Could not fetch the route. Please try again."
	}
}
