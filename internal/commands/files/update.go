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
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
)

// NewUpdateCommand creates the files update command.
func NewUpdateCommand() *cobra.Command {
	var (
		tags              []string
		customCoordinates string
		customMetadata    string
		extensions        string
		webhookURL        string
		patch             bool
	)

	cmd := &cobra.Command{
		Use:   "update <file-id>",
		Short: "Update tags, coordinates and custom metadata of a file",
		Long: `Update the details of one file.

Only flags given on the command line are sent; everything else is left
unchanged on the file.

Custom metadata is a JSON object. A key whose value is "" is sent as null,
which removes that key upstream. An empty string or {} clears all custom
metadata.

Examples:
  ikpack files update 598821f949c0a938d57563bd --tags cats,pets
  ikpack files update 598821f949c0a938d57563bd --custom-metadata '{"brand":"acme","sku":""}'
  ikpack files update 598821f949c0a938d57563bd --custom-metadata ''
  ikpack files update 598821f949c0a938d57563bd --extensions '[{"name":"google-auto-tagging","minConfidence":80,"maxTags":10}]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := map[string]interface{}{"fileId": args[0]}
			flags := cmd.Flags()
			if flags.Changed("tags") {
				inputs["tags"] = tags
			}
			if flags.Changed("custom-coordinates") {
				inputs["customCoordinates"] = customCoordinates
			}
			if flags.Changed("custom-metadata") {
				inputs["customMetadata"] = customMetadata
			}
			if flags.Changed("extensions") {
				inputs["extensions"] = extensions
			}
			if flags.Changed("webhook-url") {
				inputs["webhookUrl"] = webhookURL
			}
			if patch {
				inputs["method"] = http.MethodPatch
			}

			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, "update_file_details", inputs)
				if err != nil {
					return err
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), result.Response)
				}
				record, _ := result.Response.(map[string]interface{})
				fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Updated "+args[0]))
				printRecord(cmd, record)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&tags, "tags", nil, "Tags to set on the file (empty clears all tags)")
	f.StringVar(&customCoordinates, "custom-coordinates", "", "Area of interest as x,y,width,height")
	f.StringVar(&customMetadata, "custom-metadata", "", "JSON object of custom metadata")
	f.StringVar(&extensions, "extensions", "", "JSON array of extensions to apply")
	f.StringVar(&webhookURL, "webhook-url", "", "URL notified when extensions finish")
	f.BoolVar(&patch, "patch", false, "Send the update as PATCH instead of PUT")

	return cmd
}
