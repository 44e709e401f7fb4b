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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tombee/ikpack/internal/integration/imagekit"
	ikerrors "github.com/tombee/ikpack/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete ikpack configuration.
type Config struct {
	ImageKit ImageKitConfig `yaml:"imagekit"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ImageKitConfig configures the ImageKit endpoints and the HTTP client.
type ImageKitConfig struct {
	// BaseURL is the media API base URL.
	BaseURL string `yaml:"base_url"`

	// UploadURL is the upload endpoint.
	UploadURL string `yaml:"upload_url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond limits outbound requests; 0 disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the token bucket size used with RequestsPerSecond.
	Burst int `yaml:"burst"`
}

// CacheConfig configures the in-memory GET response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	MaxTTL  time.Duration `yaml:"max_ttl"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	Format string `yaml:"format"`

	// AddSource adds source file and line information to logs.
	AddSource bool `yaml:"add_source"`
}

// TracingConfig configures OpenTelemetry trace export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is one of stdout, otlp-http, otlp-grpc.
	Exporter string `yaml:"exporter"`

	// Endpoint is the collector address for OTLP exporters.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS for OTLP exporters.
	Insecure bool `yaml:"insecure,omitempty"`
}

// MetricsConfig configures metrics output.
type MetricsConfig struct {
	// Textfile, when set, receives Prometheus text-format metrics on exit.
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		ImageKit: ImageKitConfig{
			BaseURL:   imagekit.DefaultBaseURL,
			UploadURL: imagekit.DefaultUploadURL,
			Timeout:   30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    256,
			MaxTTL:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Tracing: TracingConfig{
			Exporter: "stdout",
		},
	}
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables take precedence over the file. If configPath is
// empty, only defaults and environment variables are used.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &ikerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ikerrors.ConfigError{
			Key:    "validation",
			Reason: err.Error(),
			Cause:  err,
		}
	}

	return cfg, nil
}

// LoadDefault loads the config file at ConfigPath if it exists, falling
// back to defaults and environment variables otherwise.
func LoadDefault() (*Config, string, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg, loadErr := Load("")
		return cfg, "", loadErr
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg, loadErr := Load("")
		return cfg, "", loadErr
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := Default()

	if c.ImageKit.BaseURL == "" {
		c.ImageKit.BaseURL = d.ImageKit.BaseURL
	}
	if c.ImageKit.UploadURL == "" {
		c.ImageKit.UploadURL = d.ImageKit.UploadURL
	}
	if c.ImageKit.Timeout == 0 {
		c.ImageKit.Timeout = d.ImageKit.Timeout
	}
	if c.ImageKit.RequestsPerSecond > 0 && c.ImageKit.Burst == 0 {
		c.ImageKit.Burst = 1
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = d.Cache.Size
	}
	if c.Cache.MaxTTL == 0 {
		c.Cache.MaxTTL = d.Cache.MaxTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = d.Tracing.Exporter
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ikerrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return ikerrors.Wrapf(err, "failed to parse YAML in %s", path)
	}

	return nil
}

// loadFromEnv applies IKPACK_* environment overrides. Unparseable numeric
// values are reported rather than ignored.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv("IKPACK_BASE_URL"); val != "" {
		c.ImageKit.BaseURL = val
	}
	if val := os.Getenv("IKPACK_UPLOAD_URL"); val != "" {
		c.ImageKit.UploadURL = val
	}
	if val := os.Getenv("IKPACK_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return &ikerrors.ConfigError{Key: "IKPACK_TIMEOUT", Reason: fmt.Sprintf("invalid duration %q", val), Cause: err}
		}
		c.ImageKit.Timeout = d
	}
	if val := os.Getenv("IKPACK_RATE_LIMIT"); val != "" {
		rps, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return &ikerrors.ConfigError{Key: "IKPACK_RATE_LIMIT", Reason: fmt.Sprintf("invalid number %q", val), Cause: err}
		}
		c.ImageKit.RequestsPerSecond = rps
		if rps > 0 && c.ImageKit.Burst == 0 {
			c.ImageKit.Burst = 1
		}
	}
	if val := os.Getenv("IKPACK_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("IKPACK_TRACING_EXPORTER"); val != "" {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = strings.ToLower(val)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if !isHTTPURL(c.ImageKit.BaseURL) {
		errs = append(errs, fmt.Sprintf("imagekit.base_url must be an absolute http(s) URL, got %q", c.ImageKit.BaseURL))
	}
	if !isHTTPURL(c.ImageKit.UploadURL) {
		errs = append(errs, fmt.Sprintf("imagekit.upload_url must be an absolute http(s) URL, got %q", c.ImageKit.UploadURL))
	}
	if c.ImageKit.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("imagekit.timeout must be positive, got %v", c.ImageKit.Timeout))
	}
	if c.ImageKit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("imagekit.requests_per_second must not be negative, got %v", c.ImageKit.RequestsPerSecond))
	}
	if c.ImageKit.Burst < 0 {
		errs = append(errs, fmt.Sprintf("imagekit.burst must not be negative, got %d", c.ImageKit.Burst))
	}

	if c.Cache.Enabled {
		if c.Cache.Size <= 0 {
			errs = append(errs, fmt.Sprintf("cache.size must be positive, got %d", c.Cache.Size))
		}
		if c.Cache.MaxTTL <= 0 {
			errs = append(errs, fmt.Sprintf("cache.max_ttl must be positive, got %v", c.Cache.MaxTTL))
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	validExporters := map[string]bool{"stdout": true, "otlp-http": true, "otlp-grpc": true}
	if !validExporters[c.Tracing.Exporter] {
		errs = append(errs, fmt.Sprintf("tracing.exporter must be one of [stdout, otlp-http, otlp-grpc], got %q", c.Tracing.Exporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Save writes the configuration to path as YAML, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
