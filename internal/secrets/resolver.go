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

package secrets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/transport"
)

// Resolver manages a chain of SecretBackends and resolves secrets
// by querying backends in priority order.
type Resolver struct {
	backends []SecretBackend
}

// NewResolver creates a new secret resolver with the given backends.
// Unavailable backends are dropped; the rest are sorted by priority.
func NewResolver(backends ...SecretBackend) *Resolver {
	available := make([]SecretBackend, 0, len(backends))
	for _, b := range backends {
		if b.Available() {
			available = append(available, b)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Priority() > available[j].Priority()
	})

	return &Resolver{backends: available}
}

// Backends returns the names of the available backends in resolution order.
func (r *Resolver) Backends() []string {
	names := make([]string, len(r.backends))
	for i, b := range r.backends {
		names[i] = b.Name()
	}
	return names
}

// Lookup returns the value of key and the name of the backend that holds it.
func (r *Resolver) Lookup(ctx context.Context, key string) (string, string, error) {
	if len(r.backends) == 0 {
		return "", "", fmt.Errorf("%w: no available backends", ErrBackendUnavailable)
	}

	var lastErr error
	for _, backend := range r.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, backend.Name(), nil
		}
		if !errors.Is(err, ErrSecretNotFound) {
			lastErr = err
		}
	}

	if lastErr != nil {
		return "", "", fmt.Errorf("failed to get secret %q: %w", key, lastErr)
	}
	return "", "", fmt.Errorf("%w: %q", ErrSecretNotFound, key)
}

// Get retrieves a secret by querying backends in priority order.
func (r *Resolver) Get(ctx context.Context, key string) (string, error) {
	value, _, err := r.Lookup(ctx, key)
	return value, err
}

// Set stores a secret in the named backend, or in the first writable
// backend when backendName is empty.
func (r *Resolver) Set(ctx context.Context, key, value, backendName string) error {
	backend, err := r.writable(backendName)
	if err != nil {
		return err
	}
	if err := backend.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set secret in %s: %w", backend.Name(), err)
	}
	return nil
}

// Delete removes a secret from the named backend, or from the first
// writable backend when backendName is empty.
func (r *Resolver) Delete(ctx context.Context, key, backendName string) error {
	backend, err := r.writable(backendName)
	if err != nil {
		return err
	}
	if err := backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete secret from %s: %w", backend.Name(), err)
	}
	return nil
}

func (r *Resolver) writable(backendName string) (SecretBackend, error) {
	if len(r.backends) == 0 {
		return nil, fmt.Errorf("%w: no available backends", ErrBackendUnavailable)
	}

	for _, backend := range r.backends {
		if backendName != "" && backend.Name() != backendName {
			continue
		}
		if ro, ok := backend.(ReadOnlyBackend); ok && ro.ReadOnly() {
			if backendName != "" {
				return nil, fmt.Errorf("backend %q: %w", backendName, ErrReadOnlyBackend)
			}
			continue
		}
		return backend, nil
	}

	if backendName != "" {
		return nil, fmt.Errorf("backend %q not found or unavailable", backendName)
	}
	return nil, fmt.Errorf("no writable backend available")
}

// Credentials resolves the ImageKit private key into transport credentials.
// A missing key is reported as an auth error.
func (r *Resolver) Credentials(ctx context.Context) (*transport.Credentials, error) {
	key, err := r.Get(ctx, PrivateKeyKey)
	if err != nil {
		return nil, operation.NewAuthError(err)
	}

	creds := &transport.Credentials{PrivateKey: key}
	if err := creds.Validate(); err != nil {
		return nil, operation.NewAuthError(err)
	}
	return creds, nil
}
