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
	"fmt"
	"os"
	"strings"
)

const (
	// EnvBackendPriority is the priority for environment variable backend.
	// It is the highest so the environment can override stored keys.
	EnvBackendPriority = 100

	envSecretPrefix = "IKPACK_SECRET_"

	// PrivateKeyEnv is the shorthand variable for the ImageKit private key.
	PrivateKeyEnv = "IKPACK_PRIVATE_KEY"
)

// EnvBackend provides read-only access to secrets via environment variables.
// It checks IKPACK_SECRET_<KEY> (e.g., IKPACK_SECRET_IMAGEKIT_PRIVATE_KEY)
// and, for the private key, IKPACK_PRIVATE_KEY.
type EnvBackend struct {
	getenv func(string) string
}

// NewEnvBackend creates a new environment variable backend.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{getenv: os.Getenv}
}

// Name returns the backend identifier.
func (e *EnvBackend) Name() string {
	return "env"
}

// Get retrieves a secret from environment variables.
func (e *EnvBackend) Get(ctx context.Context, key string) (string, error) {
	if value := e.getenv(normalizeKey(key)); value != "" {
		return value, nil
	}
	if key == PrivateKeyKey {
		if value := e.getenv(PrivateKeyEnv); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: environment variable not set", ErrSecretNotFound)
}

// Set returns ErrReadOnlyBackend.
func (e *EnvBackend) Set(ctx context.Context, key string, value string) error {
	return ErrReadOnlyBackend
}

// Delete returns ErrReadOnlyBackend.
func (e *EnvBackend) Delete(ctx context.Context, key string) error {
	return ErrReadOnlyBackend
}

// Available returns true as environment variables are always available.
func (e *EnvBackend) Available() bool {
	return true
}

// Priority returns the backend priority.
func (e *EnvBackend) Priority() int {
	return EnvBackendPriority
}

// ReadOnly returns true.
func (e *EnvBackend) ReadOnly() bool {
	return true
}

// normalizeKey converts a secret key to an environment variable name.
// Example: "imagekit/private_key" -> "IKPACK_SECRET_IMAGEKIT_PRIVATE_KEY"
func normalizeKey(key string) string {
	return envSecretPrefix + strings.ToUpper(strings.ReplaceAll(key, "/", "_"))
}
