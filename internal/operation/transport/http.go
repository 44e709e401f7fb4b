package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	internallog "github.com/tombee/ikpack/internal/log"
	"github.com/tombee/ikpack/internal/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tombee/ikpack/internal/operation/transport"

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// Credentials carry the account secret used for Basic authentication.
// ImageKit expects the private key as the username and an empty password.
type Credentials struct {
	PrivateKey string
}

// Validate checks that a private key is present.
func (c *Credentials) Validate() error {
	if c == nil || c.PrivateKey == "" {
		return fmt.Errorf("private key is required")
	}
	return nil
}

// authorizationHeader returns the Basic Authorization header value.
func (c *Credentials) authorizationHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.PrivateKey+":"))
}

// HTTPTransportConfig configures the HTTP transport.
type HTTPTransportConfig struct {
	// Credentials are attached to every request. Required.
	Credentials *Credentials

	// Timeout is the per-request timeout (default: 30s)
	Timeout time.Duration

	// UserAgent is sent on every request when set
	UserAgent string

	// Client overrides the underlying HTTP client (tests)
	Client *http.Client

	// Logger receives request/response diagnostics
	Logger *slog.Logger
}

// Validate checks if the HTTP transport configuration is valid.
func (c *HTTPTransportConfig) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	return nil
}

// HTTPTransport sends requests over HTTP with Basic authentication.
type HTTPTransport struct {
	config      *HTTPTransportConfig
	client      *http.Client
	rateLimiter RateLimiter
	logger      *slog.Logger
	tracer      trace.Tracer
	duration    metric.Float64Histogram
}

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport(cfg *HTTPTransportConfig) (*HTTPTransport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid HTTP transport config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	client = tracing.WrapHTTPClient(client)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	duration, err := otel.Meter(instrumentationName).Float64Histogram(
		"ikpack.http.client.request.duration",
		metric.WithDescription("Duration of outbound HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &HTTPTransport{
		config:   cfg,
		client:   client,
		logger:   logger.With(slog.String("component", "transport")),
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
	}, nil
}

// Name returns the transport identifier.
func (t *HTTPTransport) Name() string {
	return "http"
}

// SetRateLimiter configures rate limiting for this transport.
func (t *HTTPTransport) SetRateLimiter(limiter RateLimiter) {
	t.rateLimiter = limiter
}

// Execute sends a single HTTP request. Non-2xx responses are returned, not
// converted to errors.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, &TransportError{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("invalid request: %s", err.Error()),
			Method:  req.Method,
			URL:     redactURL(req.URL),
			Cause:   err,
		}
	}

	if t.rateLimiter != nil {
		if err := t.rateLimiter.Wait(ctx); err != nil {
			return nil, &TransportError{
				Type:    ErrorTypeCancelled,
				Message: "rate limiter cancelled",
				Method:  req.Method,
				URL:     redactURL(req.URL),
				Cause:   err,
			}
		}
	}

	ctx, span := t.tracer.Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", redactURL(req.URL)),
			attribute.Int("http.request.body.size", len(req.Body)),
		),
	)
	defer span.End()
	if id := tracing.FromContextOrEmpty(ctx); id != "" {
		span.SetAttributes(attribute.String("ikpack.correlation_id", id.String()))
	}

	start := time.Now()
	resp, err := t.executeOnce(ctx, req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	t.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.Int("http.response.status_code", status),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("url", redactURL(req.URL)),
			slog.Duration("duration", elapsed),
			internallog.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !resp.IsSuccess() {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	t.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("url", redactURL(req.URL)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)
	internallog.Trace(t.logger, "response body",
		slog.String("url", redactURL(req.URL)),
		slog.String("body", truncateBody(resp.Body, maxLoggedBody)),
	)

	return resp, nil
}

// maxLoggedBody caps the response bytes written to trace logs.
const maxLoggedBody = 2048

func truncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + fmt.Sprintf("... (%d bytes total)", len(body))
}

// validateRequest checks if the request is valid.
func validateRequest(req *Request) error {
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	validMethods := map[string]bool{
		"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
	}
	if !validMethods[req.Method] {
		return fmt.Errorf("invalid HTTP method: %q", req.Method)
	}

	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must be absolute http(s), got %q", req.URL)
	}

	return nil
}

// executeOnce performs the single request attempt.
func (t *HTTPTransport) executeOnce(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &TransportError{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Method:  req.Method,
			URL:     redactURL(req.URL),
			Cause:   err,
		}
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if t.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.config.UserAgent)
	}
	httpReq.Header.Set("Authorization", t.config.Credentials.authorizationHeader())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyHTTPError(req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Type:    ErrorTypeConnection,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Method:  req.Method,
			URL:     redactURL(req.URL),
			Cause:   err,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		Metadata: map[string]interface{}{
			MetadataRequestID: resp.Header.Get("X-Request-Id"),
		},
	}, nil
}
