// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tombee/ikpack/internal/config"
	"github.com/tombee/ikpack/internal/integration/imagekit"
	internallog "github.com/tombee/ikpack/internal/log"
	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/operation/transport"
	"github.com/tombee/ikpack/internal/secrets"
	"github.com/tombee/ikpack/internal/tracing"
	pkgerrors "github.com/tombee/ikpack/pkg/errors"
)

// ProviderName is the registry name of the ImageKit integration.
const ProviderName = "imagekit"

// secretBackends builds the credential backends in resolution order.
// Replaced in tests.
var secretBackends = func() []secrets.SecretBackend {
	return []secrets.SecretBackend{
		secrets.NewEnvBackend(),
		secrets.NewKeychainBackend(),
	}
}

// SetSecretBackendsForTest overrides the credential backends and returns a
// function restoring the previous ones.
func SetSecretBackendsForTest(backends ...secrets.SecretBackend) func() {
	prev := secretBackends
	secretBackends = func() []secrets.SecretBackend { return backends }
	return func() { secretBackends = prev }
}

// NewSecretsResolver returns a resolver over the configured backends.
func NewSecretsResolver() *secrets.Resolver {
	return secrets.NewResolver(secretBackends()...)
}

// LoadConfig loads the file named by --config, or the default config file
// when the flag is unset. It returns the path that was read, if any.
func LoadConfig() (*config.Config, string, error) {
	if path := GetConfigPath(); path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	return config.LoadDefault()
}

// NewLogger builds the CLI logger. The config file sets the baseline,
// environment variables override it, and --verbose and --quiet override both.
func NewLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	logCfg := internallog.DefaultConfig()
	logCfg.Output = out
	if cfg != nil {
		logCfg.Level = cfg.Log.Level
		logCfg.Format = internallog.Format(cfg.Log.Format)
		logCfg.AddSource = cfg.Log.AddSource
	}

	env := internallog.FromEnv()
	if os.Getenv("IKPACK_DEBUG") != "" || os.Getenv("IKPACK_LOG_LEVEL") != "" || os.Getenv("LOG_LEVEL") != "" {
		logCfg.Level = env.Level
	}
	if os.Getenv("LOG_FORMAT") != "" {
		logCfg.Format = env.Format
	}
	logCfg.AddSource = logCfg.AddSource || env.AddSource

	switch opts := Options(); {
	case opts.Verbose:
		logCfg.Level = "debug"
	case opts.Quiet:
		logCfg.Level = "error"
	}

	return internallog.New(logCfg)
}

// UserAgent is the User-Agent sent on every ImageKit request.
func UserAgent() string {
	version, _, _ := GetVersion()
	return "ikpack/" + version
}

// Runtime holds the wired components used by commands that call ImageKit.
type Runtime struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Registry   *operation.Registry
	Metrics    *prometheus.Registry

	// Authenticated is false when no private key could be resolved; remote
	// operations then fail with an auth error.
	Authenticated bool

	provider *tracing.Provider
}

// NewRuntime wires config, logging, credentials, transport and tracing into
// an operation registry holding the ImageKit integration.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	cfg, path, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg, os.Stderr)
	if id := tracing.FromContextOrEmpty(ctx); id.IsValid() {
		logger = internallog.WithCorrelationID(logger, id.String())
	}

	metrics := prometheus.NewRegistry()
	version, _, _ := GetVersion()
	provider, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "ikpack",
		ServiceVersion: version,
		Exporter:       cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
	}, metrics)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to initialize tracing")
	}
	if provider.TracingEnabled() {
		logger.Debug("tracing enabled",
			slog.String("exporter", cfg.Tracing.Exporter),
			slog.String("endpoint", cfg.Tracing.Endpoint))
	}

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Metrics:    metrics,
		provider:   provider,
	}

	tr, err := rt.newTransport(ctx)
	if err != nil {
		return nil, errors.Join(err, provider.Shutdown(ctx))
	}

	integration, err := imagekit.NewImageKitIntegration(&api.ProviderConfig{
		Transport: tr,
		BaseURL:   cfg.ImageKit.BaseURL,
		UploadURL: cfg.ImageKit.UploadURL,
	})
	if err != nil {
		return nil, errors.Join(err, provider.Shutdown(ctx))
	}

	rt.Registry = operation.NewRegistry(
		operation.WithLogger(logger),
		operation.WithMetrics(operation.NewMetricsCollector(metrics)),
	)
	rt.Registry.Register(ProviderName, integration)

	return rt, nil
}

// newTransport builds the HTTP transport chain: Basic auth, then the
// response cache, then the rate limiter.
func (rt *Runtime) newTransport(ctx context.Context) (transport.Transport, error) {
	creds, err := NewSecretsResolver().Credentials(ctx)
	if err != nil {
		rt.Logger.Debug("no private key resolved", internallog.Error(err))
		return &transport.UnauthenticatedTransport{Cause: err}, nil
	}
	rt.Authenticated = true

	var tr transport.Transport
	tr, err = transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Credentials: creds,
		Timeout:     rt.Config.ImageKit.Timeout,
		UserAgent:   UserAgent(),
		Logger:      rt.Logger,
	})
	if err != nil {
		return nil, err
	}

	if rt.Config.Cache.Enabled {
		tr = transport.NewCachingTransport(tr, transport.CacheConfig{
			Size:       rt.Config.Cache.Size,
			MaxTTL:     rt.Config.Cache.MaxTTL,
			Registerer: rt.Metrics,
		})
	}

	if limiter := transport.NewTokenBucketLimiter(rt.Config.ImageKit.RequestsPerSecond, rt.Config.ImageKit.Burst); limiter != nil {
		tr.SetRateLimiter(limiter)
	}

	return tr, nil
}

// Execute runs an ImageKit operation through the registry.
func (rt *Runtime) Execute(ctx context.Context, op string, inputs map[string]interface{}) (*operation.Result, error) {
	return rt.Registry.Execute(ctx, ProviderName+"."+op, inputs)
}

// Operations returns the operation metadata of the ImageKit integration.
func (rt *Runtime) Operations() (api.TypedProvider, error) {
	c, err := rt.Registry.Get(ProviderName)
	if err != nil {
		return nil, err
	}
	typed, ok := c.(api.TypedProvider)
	if !ok {
		return nil, fmt.Errorf("provider %q does not describe its operations", ProviderName)
	}
	return typed, nil
}

// Close flushes telemetry and writes the metrics textfile when configured.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	errs = append(errs, rt.provider.Shutdown(ctx))
	if path := rt.Config.Metrics.Textfile; path != "" {
		if err := prometheus.WriteToTextfile(path, rt.Metrics); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics textfile: %w", err))
		}
	}
	return errors.Join(errs...)
}

// WithRuntime creates a Runtime for the duration of fn and closes it
// afterwards. Close failures are logged, not returned.
func WithRuntime(ctx context.Context, fn func(ctx context.Context, rt *Runtime) error) error {
	rt, err := NewRuntime(ctx)
	if err != nil {
		return err
	}
	runErr := fn(ctx, rt)
	if closeErr := rt.Close(ctx); closeErr != nil {
		rt.Logger.Warn("failed to close runtime", internallog.Error(closeErr))
	}
	return runErr
}
