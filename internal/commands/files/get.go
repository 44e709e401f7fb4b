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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/integration/imagekit"
)

// NewGetCommand creates the files get command.
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file-id>",
		Short: "Show the details of one file",
		Long: `Show the details of one file.

Only the documented file fields are shown; anything else the service
returns is dropped. The file name heads the output and the featured fields
(ID, name, tags, coordinates, thumbnail and size) come first.

Examples:
  ikpack files get 598821f949c0a938d57563bd
  ikpack files get 598821f949c0a938d57563bd --query .customMetadata`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, "get_file_details", map[string]interface{}{"fileId": args[0]})
				if err != nil {
					return err
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), result.Response)
				}
				record, _ := result.Response.(map[string]interface{})
				printRecord(cmd, record)
				return nil
			})
		},
	}

	return cmd
}

// printRecord writes the record's label, then its fields as key: value
// lines with the featured file fields first.
func printRecord(cmd *cobra.Command, record map[string]interface{}) {
	keys := make([]string, 0, len(record))
	width := 0
	for k := range record {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}

	out := cmd.OutOrStdout()
	if label := imagekit.FileSchema.Label(record); label != "" {
		fmt.Fprintln(out, shared.Header.Render(label))
	}
	for _, k := range imagekit.FileSchema.DisplayOrder(keys) {
		fmt.Fprintf(out, "%s %s\n",
			shared.RenderLabel(fmt.Sprintf("%-*s", width+1, k+":")),
			formatValue(record[k]))
	}
}

// formatValue renders scalars as-is and composite values as compact JSON.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return shared.Muted.Render("null")
	case string:
		return t
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
