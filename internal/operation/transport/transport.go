// Package transport provides the protocol layer beneath integration operations.
//
// The transport layer owns everything that happens on the wire: authentication
// headers, rate limiting, response caching and error classification. Integrations
// build a Request and hand it to a Transport; they never touch credentials.
//
// Transports make exactly one attempt per Execute call. Non-2xx responses are
// returned as Responses so callers can apply service-specific error parsing;
// only failures that produce no response at all surface as TransportError.
package transport

import (
	"context"
	"time"
)

// Transport executes requests with protocol-specific handling.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	// Returns TransportError when no response could be obtained.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g., "http", "cache").
	Name() string

	// SetRateLimiter configures rate limiting for this transport.
	// Rate limiting occurs before request execution.
	SetRateLimiter(limiter RateLimiter)
}

// Request represents a transport-agnostic request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE)
	Method string

	// URL is the full request URL
	URL string

	// Headers are request headers
	Headers map[string]string

	// Body is the request body, sent verbatim
	Body []byte

	// CacheTTL is how long a successful GET response may be served from cache.
	// Zero disables caching for this request.
	CacheTTL time.Duration

	// Metadata contains transport-specific data
	Metadata map[string]interface{}
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the response body
	Body []byte

	// Metadata contains transport-specific data (e.g., request ID, cache hit)
	Metadata map[string]interface{}
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Standard metadata keys used across transports
const (
	// MetadataRequestID is the service request ID
	MetadataRequestID = "request_id"

	// MetadataCacheHit is true when the response was served from cache
	MetadataCacheHit = "cache_hit"
)

// RateLimiter provides rate limiting for transport requests.
// Implementations should block until a request is allowed.
type RateLimiter interface {
	// Wait blocks until a request is allowed under the rate limit.
	// Returns an error if the context is cancelled before the request can proceed.
	Wait(ctx context.Context) error
}
