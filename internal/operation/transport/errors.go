package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorType classifies transport errors.
type ErrorType string

const (
	// ErrorTypeConnection indicates network or DNS errors
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeInvalidReq indicates request validation error (invalid method, URL, etc.)
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates context was cancelled
	ErrorTypeCancelled ErrorType = "cancelled"

	// ErrorTypeAuth indicates the transport had no usable credentials
	ErrorTypeAuth ErrorType = "auth"
)

// TransportError represents a failure that produced no HTTP response.
// Integrations propagate it unmodified.
type TransportError struct {
	// Type classifies the error
	Type ErrorType

	// Message is a user-facing error message with credentials redacted
	Message string

	// Method and URL identify the failed request
	Method string
	URL    string

	// Cause is the underlying error
	// May contain sensitive data - use Message for user-facing errors
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s error: %s %s: %s", e.Type, e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *TransportError) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *TransportError) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *TransportError) Suggestion() string {
	switch e.Type {
	case ErrorTypeConnection:
		return "Check network connectivity and the configured base_url"
	case ErrorTypeTimeout:
		return "Increase imagekit.timeout or retry later"
	case ErrorTypeAuth:
		return "Run 'ikpack auth login' or set IKPACK_PRIVATE_KEY"
	default:
		return ""
	}
}

// classifyHTTPError classifies HTTP client errors into TransportError types.
func classifyHTTPError(method, rawURL string, err error) *TransportError {
	te := &TransportError{Method: method, URL: redactURL(rawURL), Cause: err}

	switch {
	case errors.Is(err, context.Canceled):
		te.Type = ErrorTypeCancelled
		te.Message = "request cancelled"
	case errors.Is(err, context.DeadlineExceeded) || isTimeoutError(err):
		te.Type = ErrorTypeTimeout
		te.Message = "request timeout"
	case isConnectionError(err):
		te.Type = ErrorTypeConnection
		te.Message = "connection error"
	default:
		te.Type = ErrorTypeConnection
		te.Message = fmt.Sprintf("HTTP error: %s", err.Error())
	}

	return te
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

// isConnectionError checks if an error is a connection error.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host")
}

// redactURL strips userinfo from a URL for safe logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}
