package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/transport"
)

const (
	// DefaultCacheTTL applies to GET calls that do not set CacheTTL.
	DefaultCacheTTL = 60 * time.Second

	// NoCache disables response caching for a call.
	NoCache time.Duration = -1

	contentTypeJSON      = "application/json"
	contentTypeMultipart = "multipart/form-data"
)

// CallOptions describes one outbound API call.
type CallOptions struct {
	// Method is the HTTP method; empty means POST
	Method string

	// Endpoint is a path relative to the base URL, or an absolute http(s) URL
	Endpoint string

	// Payload becomes query parameters for GET, a verbatim body for multipart,
	// or a JSON body otherwise
	Payload interface{}

	// ContentType is required for multipart payloads and includes the boundary
	ContentType string

	// CacheTTL controls GET response caching: zero uses DefaultCacheTTL,
	// NoCache disables it
	CacheTTL time.Duration
}

// BaseProvider provides common functionality for API integrations.
type BaseProvider struct {
	name      string
	transport transport.Transport
	baseURL   string
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(name string, config *ProviderConfig) *BaseProvider {
	return &BaseProvider{
		name:      name,
		transport: config.Transport,
		baseURL:   config.BaseURL,
	}
}

// Name returns the integration identifier.
func (c *BaseProvider) Name() string {
	return c.name
}

// BaseURL returns the configured base URL.
func (c *BaseProvider) BaseURL() string {
	return c.baseURL
}

// JoinURL resolves endpoint against base. Absolute http(s) endpoints are
// returned unchanged; otherwise the two are joined with exactly one slash.
func JoinURL(base, endpoint string) string {
	if isAbsoluteURL(endpoint) {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// isAbsoluteURL reports whether s has an http(s) scheme and a host. The
// scheme is compared case-insensitively.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BuildURL substitutes {param} placeholders in pathTemplate with
// path-escaped input values. Missing parameters are a validation error.
func (c *BaseProvider) BuildURL(pathTemplate string, inputs map[string]interface{}) (string, error) {
	path := pathTemplate

	for key, value := range inputs {
		placeholder := fmt.Sprintf("{%s}", key)
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(fmt.Sprint(value)))
		}
	}

	if start := strings.Index(path, "{"); start >= 0 {
		if end := strings.Index(path[start:], "}"); end > 0 {
			return "", operation.NewMissingParameterError(path[start+1 : start+end])
		}
	}

	return JoinURL(c.baseURL, path), nil
}

// BuildRequest turns call options into a transport request without sending it.
func (c *BaseProvider) BuildRequest(opts CallOptions) (*transport.Request, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodPost
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return nil, operation.NewValidationError("unsupported HTTP method", opts.Method, nil)
	}

	req := &transport.Request{
		Method:  method,
		URL:     JoinURL(c.baseURL, opts.Endpoint),
		Headers: map[string]string{},
	}

	if method == http.MethodGet {
		req.URL = appendQuery(req.URL, opts.Payload)
		switch {
		case opts.CacheTTL == 0:
			req.CacheTTL = DefaultCacheTTL
		case opts.CacheTTL > 0:
			req.CacheTTL = opts.CacheTTL
		}
		return req, nil
	}

	if strings.HasPrefix(opts.ContentType, contentTypeMultipart) {
		switch body := opts.Payload.(type) {
		case string:
			req.Body = []byte(body)
		case []byte:
			req.Body = body
		default:
			return nil, operation.NewValidationError(
				fmt.Sprintf("multipart payload must be pre-encoded, got %T", opts.Payload), "", nil)
		}
		req.Headers["Content-Type"] = opts.ContentType
		return req, nil
	}

	if opts.Payload != nil {
		body, err := encodeJSON(opts.Payload)
		if err != nil {
			return nil, operation.NewValidationError("payload is not JSON-encodable", fmt.Sprint(opts.Payload), err)
		}
		req.Body = body
	}
	req.Headers["Content-Type"] = contentTypeJSON
	return req, nil
}

// Call builds the request and sends it with exactly one transport attempt.
// Transport errors are returned unmodified; status codes are not inspected.
func (c *BaseProvider) Call(ctx context.Context, opts CallOptions) (*transport.Response, error) {
	req, err := c.BuildRequest(opts)
	if err != nil {
		return nil, err
	}
	return c.transport.Execute(ctx, req)
}

// ParseJSONResponse parses a JSON response into a target value.
func (c *BaseProvider) ParseJSONResponse(resp *transport.Response, target interface{}) error {
	if len(resp.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &operation.Error{
			Type:       operation.ErrorTypeUpstream,
			Message:    "response is not valid JSON",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// ToResult converts a transport response to an operation result.
func (c *BaseProvider) ToResult(resp *transport.Response, response interface{}) *operation.Result {
	return &operation.Result{
		Response:    response,
		RawResponse: resp.Body,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Headers,
		Metadata:    resp.Metadata,
	}
}

func encodeJSON(payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case json.RawMessage:
		return p, nil
	default:
		return json.Marshal(p)
	}
}

// appendQuery encodes a map payload as sorted query parameters.
// Non-map payloads are ignored.
func appendQuery(rawURL string, payload interface{}) string {
	values := url.Values{}

	switch p := payload.(type) {
	case map[string]interface{}:
		for k, v := range p {
			if v == nil {
				continue
			}
			values.Set(k, fmt.Sprint(v))
		}
	case map[string]string:
		for k, v := range p {
			values.Set(k, v)
		}
	default:
		return rawURL
	}

	if len(values) == 0 {
		return rawURL
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + values.Encode()
}
