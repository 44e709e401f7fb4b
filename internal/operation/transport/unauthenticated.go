package transport

import (
	"context"
)

// UnauthenticatedTransport stands in for the HTTP transport when no private
// key is configured. Every request fails with an auth TransportError, so
// operations that never reach the network keep working.
type UnauthenticatedTransport struct {
	// Cause is the credential lookup failure
	Cause error
}

// Execute fails without sending the request.
func (t *UnauthenticatedTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	te := &TransportError{
		Type:    ErrorTypeAuth,
		Message: "no ImageKit private key configured",
		Cause:   t.Cause,
	}
	if req != nil {
		te.Method = req.Method
		te.URL = redactURL(req.URL)
	}
	return nil, te
}

// Name returns the transport identifier.
func (t *UnauthenticatedTransport) Name() string {
	return "unauthenticated"
}

// SetRateLimiter is a no-op; no request is ever sent.
func (t *UnauthenticatedTransport) SetRateLimiter(limiter RateLimiter) {}
