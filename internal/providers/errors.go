package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAuthentication  = errors.New("model authentication failed")
	ErrTransport       = errors.New("model request failed")
	ErrEmptyResponse   = errors.New("model returned an empty response")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrMissingAPIKey   = errors.New("missing API key")
)

// classifyStatus wraps err with the sentinel matching an HTTP status code.
// Context cancellation keeps its own identity so callers can still test
// errors.Is(err, context.Canceled).
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded: %w", ErrTransport, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}

// isContextErr reports whether err stems from the caller's context.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// statusFromMessage extracts an auth status from error text when the SDK
// error type is not available for inspection.
func statusFromMessage(msg string) int {
	upper := strings.ToUpper(msg)
	switch {
	case strings.Contains(upper, "UNAUTHENTICATED"), strings.Contains(upper, "API KEY NOT VALID"):
		return http.StatusUnauthorized
	case strings.Contains(upper, "PERMISSION_DENIED"):
		return http.StatusForbidden
	case strings.Contains(upper, "RESOURCE_EXHAUSTED"):
		return http.StatusTooManyRequests
	}
	return 0
}
