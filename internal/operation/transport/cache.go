package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Size is the maximum number of cached responses
	Size int

	// MaxTTL bounds the lifetime of any entry regardless of the request TTL
	MaxTTL time.Duration

	// Registerer receives the hit/miss counters. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

type cacheEntry struct {
	resp      *Response
	expiresAt time.Time
}

// CachingTransport serves repeated GET requests from an in-memory LRU.
// Only requests with a positive CacheTTL and 2xx responses are cached.
type CachingTransport struct {
	next   Transport
	cache  *expirable.LRU[string, cacheEntry]
	now    func() time.Time
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCachingTransport wraps next with a response cache.
func NewCachingTransport(next Transport, cfg CacheConfig) *CachingTransport {
	size := cfg.Size
	if size <= 0 {
		size = 256
	}
	maxTTL := cfg.MaxTTL
	if maxTTL <= 0 {
		maxTTL = 5 * time.Minute
	}

	factory := promauto.With(cfg.Registerer)
	return &CachingTransport{
		next:  next,
		cache: expirable.NewLRU[string, cacheEntry](size, nil, maxTTL),
		now:   time.Now,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ikpack_transport_cache_hits_total",
			Help: "Total number of responses served from the transport cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "ikpack_transport_cache_misses_total",
			Help: "Total number of cacheable requests that missed the transport cache.",
		}),
	}
}

// Name returns the transport identifier.
func (c *CachingTransport) Name() string {
	return "cache"
}

// SetRateLimiter forwards to the wrapped transport so cache hits are not limited.
func (c *CachingTransport) SetRateLimiter(limiter RateLimiter) {
	c.next.SetRateLimiter(limiter)
}

// Execute returns a cached response when one is fresh, otherwise delegates.
func (c *CachingTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Method != http.MethodGet || req.CacheTTL <= 0 {
		return c.next.Execute(ctx, req)
	}

	key := req.URL
	if entry, ok := c.cache.Get(key); ok && c.now().Before(entry.expiresAt) {
		c.hits.Inc()
		return cloneWithHit(entry.resp), nil
	}
	c.misses.Inc()

	resp, err := c.next.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.IsSuccess() {
		c.cache.Add(key, cacheEntry{resp: resp, expiresAt: c.now().Add(req.CacheTTL)})
	}
	return resp, nil
}

// Purge drops every cached response.
func (c *CachingTransport) Purge() {
	c.cache.Purge()
}

func cloneWithHit(resp *Response) *Response {
	meta := make(map[string]interface{}, len(resp.Metadata)+1)
	for k, v := range resp.Metadata {
		meta[k] = v
	}
	meta[MetadataCacheHit] = true
	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Metadata:   meta,
	}
}
