package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	internallog "github.com/tombee/ikpack/internal/log"
	"github.com/tombee/ikpack/internal/operation/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registry manages a collection of operation providers and dispatches
// "provider.operation" references to them.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Connector
	metrics   *MetricsCollector
	logger    *slog.Logger
	calls     *internallog.OperationMiddleware
	tracer    trace.Tracer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMetrics records every execution with the given collector.
func WithMetrics(m *MetricsCollector) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithLogger sets the logger used for execution diagnostics.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates a new operation registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: make(map[string]Connector),
		logger:    slog.Default(),
		tracer:    otel.Tracer("github.com/tombee/ikpack/internal/operation"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = internallog.WithComponent(r.logger, "registry")
	r.calls = internallog.NewOperationMiddleware(r.logger)
	return r
}

// Register adds an operation provider to the registry.
func (r *Registry) Register(name string, provider Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// Get retrieves an operation provider by name.
func (r *Registry) Get(name string) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, &Error{
			Type:        ErrorTypeNotFound,
			Message:     fmt.Sprintf("operation provider %q not found", name),
			SuggestText: "Run 'ikpack operations' to list available operations",
		}
	}

	return provider, nil
}

// List returns the sorted names of all registered operation providers.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Execute runs an operation.
// The reference should be in format "provider_name.operation_name".
func (r *Registry) Execute(ctx context.Context, reference string, inputs map[string]interface{}) (*Result, error) {
	providerName, operationName, err := parseReference(reference)
	if err != nil {
		return nil, err
	}

	provider, err := r.Get(providerName)
	if err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, reference, trace.WithAttributes(
		attribute.String("operation.provider", providerName),
		attribute.String("operation.name", operationName),
	))
	defer span.End()

	call := &internallog.OperationCall{Reference: reference}
	var result *Result
	start := time.Now()
	err = r.calls.Handler(ctx, call, func() error {
		var execErr error
		result, execErr = provider.Execute(ctx, operationName, inputs)
		if result != nil {
			call.StatusCode = result.StatusCode
			call.RequestID, _ = result.Metadata[transport.MetadataRequestID].(string)
			call.CacheHit, _ = result.Metadata[transport.MetadataCacheHit].(bool)
		}
		return execErr
	})

	if r.metrics != nil {
		r.metrics.RecordRequest(providerName, operationName, time.Since(start), err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", result.StatusCode))
	return result, nil
}

// parseReference splits an operation reference into provider and operation names.
// Expected format: "provider_name.operation_name"
func parseReference(reference string) (string, string, error) {
	providerName, operationName, found := strings.Cut(reference, ".")
	if !found {
		return "", "", &Error{
			Type:    ErrorTypeValidation,
			Message: fmt.Sprintf("invalid operation reference %q: must be in format 'provider.operation'", reference),
		}
	}

	if providerName == "" || operationName == "" {
		return "", "", &Error{
			Type:    ErrorTypeValidation,
			Message: fmt.Sprintf("invalid operation reference %q: provider and operation names cannot be empty", reference),
		}
	}

	return providerName, operationName, nil
}
