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

package tags

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/secrets"
)

type capturedRequest struct {
	method string
	path   string
	body   string
}

func startServer(t *testing.T, status int, body string) *[]capturedRequest {
	t.Helper()
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{method: r.Method, path: r.URL.Path, body: string(b)})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	t.Cleanup(shared.ResetFlagsForTest)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("IKPACK_BASE_URL", server.URL+"/v1")
	t.Setenv("IKPACK_PRIVATE_KEY", "private_test")
	t.Cleanup(shared.SetSecretBackendsForTest(secrets.NewEnvBackend()))
	return &captured
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTagsAdd(t *testing.T) {
	captured := startServer(t, http.StatusOK, `{"successfullyUpdatedFileIds":["f1","f2"]}`)

	out, err := execute(NewCommand(), "add", "f1", "f2", "--tags", "cats, pets")
	require.NoError(t, err)

	assert.Contains(t, out, "Tagged f1")
	assert.Contains(t, out, "Tagged f2")
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/v1/files/addTags", req.path)
	assert.JSONEq(t, `{"fileIds":["f1","f2"],"tags":["cats","pets"]}`, req.body)
}

func TestTagsRemove_JSON(t *testing.T) {
	captured := startServer(t, http.StatusOK, `{"successfullyUpdatedFileIds":["f1"]}`)
	shared.SetOutputFlagsForTest(true, "")

	out, err := execute(NewCommand(), "remove", "f1", "--tags", "pets")
	require.NoError(t, err)

	assert.JSONEq(t, `{"successfullyUpdatedFileIds":["f1"]}`, out)
	assert.Equal(t, "/v1/files/removeTags", (*captured)[0].path)
}

func TestTags_RequiresTags(t *testing.T) {
	captured := startServer(t, http.StatusOK, `{}`)

	_, err := execute(NewCommand(), "add", "f1")
	require.Error(t, err)
	assert.Equal(t, shared.ExitValidation, shared.ExitCodeFor(err))
	assert.Empty(t, *captured)
}

func TestTags_UpstreamError(t *testing.T) {
	startServer(t, http.StatusNotFound, `{"message":"The requested file does not exist.","missingFileIds":["f9"]}`)

	_, err := execute(NewCommand(), "add", "f9", "--tags", "x")
	require.Error(t, err)
	assert.Equal(t, shared.ExitUpstream, shared.ExitCodeFor(err))
	assert.Contains(t, err.Error(), "The requested file does not exist.")
}
