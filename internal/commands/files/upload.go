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
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/integration/imagekit"
)

// uploadSource is one file to upload: a remote URL or a local path.
type uploadSource struct {
	// URL is set for remote sources; the service fetches it.
	URL string

	// Path is set for local files, which are sent base64-encoded.
	Path string

	// FileName is the name the file is stored under.
	FileName string
}

// image returns the upload payload: the URL itself or the file content.
func (s uploadSource) image() (string, error) {
	if s.URL != "" {
		return s.URL, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// uploadedFile is the per-source result reported by the upload command.
type uploadedFile struct {
	Source string `json:"source"`
	FileID string `json:"fileId,omitempty"`
	Name   string `json:"name,omitempty"`
	URL    string `json:"url"`

	// AccountID is the URL endpoint ID for default ik.imagekit.io delivery URLs
	AccountID string `json:"accountId,omitempty"`
}

// uploadFlag maps a command-line flag to an upload input. Only flags set
// on the command line are sent; the service applies its own defaults.
type uploadFlag struct {
	flag  string
	input string
}

var uploadFlags = []uploadFlag{
	{flag: "unique", input: "useUniqueFileName"},
	{flag: "tags", input: "tags"},
	{flag: "folder", input: "folder"},
	{flag: "private", input: "isPrivateFile"},
	{flag: "published", input: "isPublished"},
	{flag: "custom-coordinates", input: "customCoordinates"},
	{flag: "response-fields", input: "responseFields"},
	{flag: "extensions", input: "extensions"},
	{flag: "webhook-url", input: "webhookUrl"},
	{flag: "overwrite", input: "overwriteFile"},
	{flag: "overwrite-ai-tags", input: "overwriteAITags"},
	{flag: "overwrite-tags", input: "overwriteTags"},
	{flag: "overwrite-custom-metadata", input: "overwriteCustomMetadata"},
	{flag: "custom-metadata", input: "customMetadata"},
	{flag: "transformation", input: "transformation"},
}

// NewUploadCommand creates the files upload command.
func NewUploadCommand() *cobra.Command {
	var fileName string

	cmd := &cobra.Command{
		Use:   "upload <url|path|glob>...",
		Short: "Upload files from URLs or local paths",
		Long: `Upload one or more files and print the URL of each.

Sources starting with http:// or https:// are fetched by ImageKit. Any
other source is a local path or a doublestar glob such as 'photos/**/*.png';
matching files are sent base64-encoded. Each file is stored under its
base name unless --file-name is given for a single source.

Examples:
  ikpack files upload https://example.com/cat.jpg --folder /pets
  ikpack files upload ./cat.jpg --file-name kitty.jpg --unique=false
  ikpack files upload 'photos/**/*.jpg' --tags pets,cats
  ikpack files upload ./cat.jpg --custom-metadata '{"brand":"acme"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := resolveSources(args)
			if err != nil {
				return err
			}
			if fileName != "" {
				if len(sources) != 1 {
					return shared.NewValidationExitError(
						fmt.Sprintf("--file-name needs exactly one source, got %d", len(sources)), nil)
				}
				sources[0].FileName = fileName
			}
			for _, src := range sources {
				if src.FileName == "" {
					return shared.NewValidationExitError(
						fmt.Sprintf("cannot derive a file name from %q; pass --file-name", src.URL), nil)
				}
			}

			base := uploadInputs(cmd.Flags())

			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				uploaded := make([]uploadedFile, 0, len(sources))
				for _, src := range sources {
					file, err := uploadOne(ctx, rt, src, base)
					if err != nil {
						return err
					}
					uploaded = append(uploaded, file)
					if !shared.GetJSON() {
						fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK(fmt.Sprintf("%s %s", src.FileName, shared.Muted.Render(file.URL))))
					}
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), uploaded)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&fileName, "file-name", "", "Name to store the file under (single source only)")
	f.Bool("unique", true, "Add a unique suffix to the file name")
	f.StringSlice("tags", nil, "Tags to set on the file")
	f.String("folder", "/", "Destination folder path")
	f.Bool("private", false, "Mark the file as private")
	f.Bool("published", true, "Upload the file as published")
	f.String("custom-coordinates", "", "Area of interest as x,y,width,height")
	f.StringSlice("response-fields", nil, "Fields to include in the response")
	f.String("extensions", "", "JSON array of extensions to apply")
	f.String("webhook-url", "", "URL notified when extensions finish")
	f.Bool("overwrite", true, "Replace an existing file at the same path")
	f.Bool("overwrite-ai-tags", true, "Drop AITags of a replaced file")
	f.Bool("overwrite-tags", true, "Drop tags of a replaced file when none are given")
	f.Bool("overwrite-custom-metadata", true, "Drop custom metadata of a replaced file when none is given")
	f.String("custom-metadata", "", "JSON object of custom metadata")
	f.String("transformation", "", "JSON object of pre and post transformations")

	return cmd
}

// uploadInputs collects the inputs for flags set on the command line.
// List flags are sent comma-joined.
func uploadInputs(flags *pflag.FlagSet) map[string]interface{} {
	inputs := map[string]interface{}{}
	for _, uf := range uploadFlags {
		fl := flags.Lookup(uf.flag)
		if fl == nil || !fl.Changed {
			continue
		}
		switch fl.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(uf.flag)
			inputs[uf.input] = v
		case "stringSlice":
			v, _ := flags.GetStringSlice(uf.flag)
			inputs[uf.input] = strings.Join(v, ",")
		default:
			inputs[uf.input] = fl.Value.String()
		}
	}
	return inputs
}

// uploadOne uploads a single source with the shared inputs.
func uploadOne(ctx context.Context, rt *shared.Runtime, src uploadSource, base map[string]interface{}) (uploadedFile, error) {
	image, err := src.image()
	if err != nil {
		return uploadedFile{}, err
	}

	inputs := make(map[string]interface{}, len(base)+2)
	for k, v := range base {
		inputs[k] = v
	}
	inputs["image"] = image
	inputs["fileName"] = src.FileName

	result, err := rt.Execute(ctx, "upload_file", inputs)
	if err != nil {
		return uploadedFile{}, err
	}

	file := uploadedFile{Source: src.URL, URL: fmt.Sprint(result.Response)}
	if src.Path != "" {
		file.Source = src.Path
	}
	if id, ok := result.Metadata["fileId"].(string); ok {
		file.FileID = id
	}
	if name, ok := result.Metadata["name"].(string); ok {
		file.Name = name
	}
	file.AccountID, _ = imagekit.AccountIDFromURL(file.URL)
	return file, nil
}

// resolveSources expands arguments into upload sources. URLs are kept
// as-is; anything else is globbed against the local filesystem.
func resolveSources(args []string) ([]uploadSource, error) {
	var sources []uploadSource
	for _, arg := range args {
		if isRemoteURL(arg) {
			u, _ := url.Parse(arg)
			name := path.Base(u.Path)
			if name == "/" || name == "." {
				name = ""
			}
			sources = append(sources, uploadSource{URL: arg, FileName: name})
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, shared.NewValidationExitError(fmt.Sprintf("invalid pattern %q", arg), err)
		}

		found := false
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			found = true
			sources = append(sources, uploadSource{Path: m, FileName: filepath.Base(m)})
		}
		if !found {
			return nil, shared.NewValidationExitError(fmt.Sprintf("no files match %q", arg), nil)
		}
	}
	return sources, nil
}

func isRemoteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
