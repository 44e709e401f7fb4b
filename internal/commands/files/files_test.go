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

package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/secrets"
)

// recordedRequest is what the fake ImageKit server saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Parts  []formPart
}

type formPart struct {
	Name  string
	Value string
}

// fakeImageKit records requests and answers each with status and body.
type fakeImageKit struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeImageKit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if mr, err := r.MultipartReader(); err == nil {
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			value, _ := io.ReadAll(part)
			rec.Parts = append(rec.Parts, formPart{Name: part.FormName(), Value: string(value)})
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeImageKit) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// startFake starts a fake server and points the CLI runtime at it.
func startFake(t *testing.T, body string) *fakeImageKit {
	t.Helper()
	fake := &fakeImageKit{body: body}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	t.Cleanup(shared.ResetFlagsForTest)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("IKPACK_BASE_URL", server.URL+"/v1")
	t.Setenv("IKPACK_UPLOAD_URL", server.URL+"/api/v1/files/upload")
	t.Setenv("IKPACK_PRIVATE_KEY", "private_test")
	t.Cleanup(shared.SetSecretBackendsForTest(secrets.NewEnvBackend()))
	return fake
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
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

func partNames(parts []formPart) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}

func partValue(parts []formPart, name string) (string, bool) {
	for _, p := range parts {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

func TestSyncCommand(t *testing.T) {
	fake := startFake(t, `[
		{"fileId":"f1","name":"a.png","createdAt":"2024-01-01T00:00:00Z","tags":["cats"]},
		{"fileId":"f2","name":"b.png","createdAt":"2024-01-02T00:00:00Z","tags":null}
	]`)

	out, err := runCommand(t, NewSyncCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "f1")
	assert.Contains(t, out, "b.png")
	assert.Contains(t, out, "Total: 2 file(s)")

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/v1/files", reqs[0].Path)
	assert.Contains(t, reqs[0].Query, "sort=ASC_CREATED")
}

func TestSyncCommand_Query(t *testing.T) {
	startFake(t, `[{"fileId":"f1","tags":["cats"]},{"fileId":"f2","tags":[]}]`)
	shared.SetOutputFlagsForTest(false, `[.[] | select(.tags | index("cats")) | .fileId]`)

	out, err := runCommand(t, NewSyncCommand())
	require.NoError(t, err)
	assert.JSONEq(t, `["f1"]`, out)
}

func TestSyncCommand_JSONProjectsRecords(t *testing.T) {
	startFake(t, `[{"fileId":"f1","internalFlag":true,"embeddedMetadata":{"ImageWidth":10}}]`)
	shared.SetOutputFlagsForTest(true, "")

	out, err := runCommand(t, NewSyncCommand())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"fileId":"f1","embeddedMetadata":"{\"ImageWidth\":10}"}]`, out)
}

func TestSyncCommand_JSONRaw(t *testing.T) {
	startFake(t, `[{"fileId":"f1","internalFlag":true,"embeddedMetadata":{"ImageWidth":10}}]`)
	shared.SetOutputFlagsForTest(true, "")

	out, err := runCommand(t, NewSyncCommand(), "--raw")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"fileId":"f1","internalFlag":true,"embeddedMetadata":{"ImageWidth":10}}]`, out)
}

func TestSyncCommand_UpstreamError(t *testing.T) {
	fake := startFake(t, `{"message":"Your account is suspended"}`)
	fake.status = http.StatusForbidden

	_, err := runCommand(t, NewSyncCommand())
	require.Error(t, err)
	assert.Equal(t, shared.ExitAuth, shared.ExitCodeFor(err))
	assert.Len(t, fake.recorded(), 1)
}

func TestGetCommand(t *testing.T) {
	fake := startFake(t, `{"fileId":"f1","name":"a.png","customMetadata":{"brand":"acme"},"internalFlag":true}`)

	out, err := runCommand(t, NewGetCommand(), "f1")
	require.NoError(t, err)

	assert.Contains(t, out, "fileId:")
	assert.Contains(t, out, `{"brand":"acme"}`)
	assert.NotContains(t, out, "internalFlag")
	assert.Equal(t, "/v1/files/f1/details", fake.recorded()[0].Path)
}

func TestGetCommand_FeaturedFieldsFirst(t *testing.T) {
	startFake(t, `{"url":"https://ik.imagekit.io/demo/a.png","fileId":"f1","name":"a.png","tags":["x"],"createdAt":"2024-01-01T00:00:00Z"}`)

	out, err := runCommand(t, NewGetCommand(), "f1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "a.png")
	assert.NotContains(t, lines[0], ":")
	assert.Contains(t, lines[1], "fileId:")
	assert.Contains(t, lines[2], "name:")
	assert.Contains(t, lines[3], "tags:")
	assert.Contains(t, lines[4], "createdAt:")
	assert.Contains(t, lines[5], "url:")
}

func TestGetCommand_JSON(t *testing.T) {
	startFake(t, `{"fileId":"f1","name":"a.png","internalFlag":true}`)
	shared.SetOutputFlagsForTest(true, "")

	out, err := runCommand(t, NewGetCommand(), "f1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fileId":"f1","name":"a.png"}`, out)
}

func TestUploadCommand_LocalGlob(t *testing.T) {
	fake := startFake(t, `{"fileId":"up1","name":"x.png","url":"https://ik.imagekit.io/demo/x.png"}`)
	shared.SetOutputFlagsForTest(true, "")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("first"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.png"), []byte("second"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	out, err := runCommand(t, NewUploadCommand(), filepath.Join(dir, "**", "*.png"), "--folder", "/pets", "--tags", "pets,cats")
	require.NoError(t, err)

	var uploaded []uploadedFile
	require.NoError(t, json.Unmarshal([]byte(out), &uploaded))
	require.Len(t, uploaded, 2)
	assert.Equal(t, "https://ik.imagekit.io/demo/x.png", uploaded[0].URL)
	assert.Equal(t, "up1", uploaded[0].FileID)
	assert.Equal(t, "demo", uploaded[0].AccountID)

	reqs := fake.recorded()
	require.Len(t, reqs, 2)
	for _, req := range reqs {
		assert.Equal(t, "/api/v1/files/upload", req.Path)
		assert.Equal(t, []string{"file", "fileName", "tags", "folder"}, partNames(req.Parts))
		tags, _ := partValue(req.Parts, "tags")
		assert.Equal(t, "pets,cats", tags)
	}

	names := map[string]string{}
	for _, req := range reqs {
		name, _ := partValue(req.Parts, "fileName")
		file, _ := partValue(req.Parts, "file")
		names[name] = file
	}
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("first")), names["a.png"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("second")), names["b.png"])
}

func TestUploadCommand_URLSource(t *testing.T) {
	fake := startFake(t, `{"fileId":"up1","name":"kitty.jpg","url":"https://ik.imagekit.io/demo/kitty.jpg"}`)

	out, err := runCommand(t, NewUploadCommand(), "https://example.com/img/cat.jpg", "--unique=false")
	require.NoError(t, err)
	assert.Contains(t, out, "https://ik.imagekit.io/demo/kitty.jpg")

	parts := fake.recorded()[0].Parts
	assert.Equal(t, []string{"file", "fileName", "useUniqueFileName"}, partNames(parts))
	file, _ := partValue(parts, "file")
	name, _ := partValue(parts, "fileName")
	unique, _ := partValue(parts, "useUniqueFileName")
	assert.Equal(t, "https://example.com/img/cat.jpg", file)
	assert.Equal(t, "cat.jpg", name)
	assert.Equal(t, "false", unique)
}

func TestUploadCommand_Validation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("b"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "file name with many sources", args: []string{filepath.Join(dir, "*.png"), "--file-name", "x.png"}},
		{name: "no matches", args: []string{filepath.Join(dir, "*.gif")}},
		{name: "url without name", args: []string{"https://example.com/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := startFake(t, `{}`)
			_, err := runCommand(t, NewUploadCommand(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, shared.ExitValidation, shared.ExitCodeFor(err))
			assert.Empty(t, fake.recorded())
		})
	}
}

func TestUploadCommand_MissingURLInResponse(t *testing.T) {
	startFake(t, `{"fileId":"up1"}`)

	_, err := runCommand(t, NewUploadCommand(), "https://example.com/cat.jpg")
	require.Error(t, err)
	assert.Equal(t, shared.ExitUpstream, shared.ExitCodeFor(err))
}

func TestUpdateCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantMethod string
		wantBody   string
	}{
		{
			name:       "empty metadata value becomes null",
			args:       []string{"f1", "--custom-metadata", `{"brand":"acme","sku":""}`},
			wantMethod: http.MethodPut,
			wantBody:   `{"customMetadata":{"brand":"acme","sku":null}}`,
		},
		{
			name:       "empty metadata clears",
			args:       []string{"f1", "--custom-metadata", ""},
			wantMethod: http.MethodPut,
			wantBody:   `{"customMetadata":{}}`,
		},
		{
			name:       "tags only",
			args:       []string{"f1", "--tags", "cats,pets"},
			wantMethod: http.MethodPut,
			wantBody:   `{"tags":["cats","pets"]}`,
		},
		{
			name:       "patch",
			args:       []string{"f1", "--webhook-url", "https://hooks.example.com", "--patch"},
			wantMethod: http.MethodPatch,
			wantBody:   `{"webhookUrl":"https://hooks.example.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := startFake(t, `{"fileId":"f1","name":"a.png"}`)

			out, err := runCommand(t, NewUpdateCommand(), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Updated f1")

			reqs := fake.recorded()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.wantMethod, reqs[0].Method)
			assert.Equal(t, "/v1/files/f1/details", reqs[0].Path)
			assert.JSONEq(t, tt.wantBody, string(reqs[0].Body))
		})
	}
}

func TestUpdateCommand_MalformedMetadata(t *testing.T) {
	fake := startFake(t, `{}`)

	_, err := runCommand(t, NewUpdateCommand(), "f1", "--custom-metadata", `{"brand":`)
	require.Error(t, err)
	assert.Equal(t, shared.ExitValidation, shared.ExitCodeFor(err))
	assert.Empty(t, fake.recorded())
}
