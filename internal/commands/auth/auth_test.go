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

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/secrets"
)

// memoryBackend is a writable in-memory secret backend.
type memoryBackend struct {
	values map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{values: map[string]string{}}
}

func (m *memoryBackend) Name() string    { return "memory" }
func (m *memoryBackend) Priority() int   { return 50 }
func (m *memoryBackend) Available() bool { return true }

func (m *memoryBackend) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", secrets.ErrSecretNotFound
	}
	return v, nil
}

func (m *memoryBackend) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memoryBackend) Delete(ctx context.Context, key string) error {
	if _, ok := m.values[key]; !ok {
		return secrets.ErrSecretNotFound
	}
	delete(m.values, key)
	return nil
}

func setup(t *testing.T, envKey string) *memoryBackend {
	t.Helper()
	t.Cleanup(shared.ResetFlagsForTest)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("IKPACK_PRIVATE_KEY", envKey)
	t.Setenv("IKPACK_SECRET_IMAGEKIT_PRIVATE_KEY", "")
	mem := newMemoryBackend()
	t.Cleanup(shared.SetSecretBackendsForTest(secrets.NewEnvBackend(), mem))
	return mem
}

func execute(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_FromStdin(t *testing.T) {
	mem := setup(t, "")

	out, err := execute(NewCommand(), "private_abc123\n", "login")
	require.NoError(t, err)

	assert.Contains(t, out, "Private key stored")
	assert.Equal(t, "private_abc123", mem.values[secrets.PrivateKeyKey])
}

func TestLogin_EnvTakesPrecedence(t *testing.T) {
	mem := setup(t, "private_from_env")

	out, err := execute(NewCommand(), "private_abc123", "login")
	require.NoError(t, err)

	assert.Contains(t, out, "environment value takes precedence")
	assert.Equal(t, "private_abc123", mem.values[secrets.PrivateKeyKey])
}

func TestLogin_Errors(t *testing.T) {
	t.Run("empty key", func(t *testing.T) {
		setup(t, "")
		_, err := execute(NewCommand(), "  \n", "login")
		require.Error(t, err)
		assert.Equal(t, shared.ExitValidation, shared.ExitCodeFor(err))
	})

	t.Run("read-only backend", func(t *testing.T) {
		setup(t, "")
		_, err := execute(NewCommand(), "private_abc123", "login", "--backend", "env")
		require.Error(t, err)
		assert.Equal(t, shared.ExitAuth, shared.ExitCodeFor(err))
	})
}

func TestLogout(t *testing.T) {
	mem := setup(t, "")
	mem.values[secrets.PrivateKeyKey] = "private_abc123"

	out, err := execute(NewCommand(), "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Private key removed")
	assert.Empty(t, mem.values)

	out, err = execute(NewCommand(), "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored private key")
}

func TestStatus(t *testing.T) {
	mem := setup(t, "")
	mem.values[secrets.PrivateKeyKey] = "private_abc123"
	shared.SetOutputFlagsForTest(true, "")

	out, err := execute(NewCommand(), "", "status")
	require.NoError(t, err)

	var status authStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, "memory", status.Backend)
	assert.Equal(t, "...c123", status.Key)
	assert.Equal(t, []string{"env", "memory"}, status.Backends)
	assert.NotContains(t, out, "private_abc123")
}

func TestStatus_NotConfigured(t *testing.T) {
	setup(t, "")

	out, err := execute(NewCommand(), "", "status")
	require.Error(t, err)
	assert.Equal(t, shared.ExitAuth, shared.ExitCodeFor(err))
	assert.Contains(t, out, "No private key configured")
}

func TestStatus_Verify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantOutput string
	}{
		{name: "accepted", status: http.StatusOK, wantOutput: "[true]"},
		{name: "rejected", status: http.StatusUnauthorized, wantErr: true, wantOutput: "[false]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, _, _ := r.BasicAuth()
				assert.Equal(t, "private_from_env", user)
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					_, _ = w.Write([]byte(`[]`))
				} else {
					_, _ = w.Write([]byte(`{"message":"Your request is not authorized"}`))
				}
			}))
			defer server.Close()

			setup(t, "private_from_env")
			t.Setenv("IKPACK_BASE_URL", server.URL+"/v1")

			out, err := execute(NewCommand(), "", "status", "--verify")
			assert.Contains(t, out, tt.wantOutput)
			assert.Contains(t, out, "env")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, shared.ExitAuth, shared.ExitCodeFor(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
