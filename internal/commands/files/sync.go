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
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/integration/imagekit"
)

// NewSyncCommand creates the files sync command.
func NewSyncCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "List every file in the media library",
		Long: `List every file in the media library, sorted by ascending creation time.

In JSON mode each record is projected to the file record fields, with
embeddedMetadata flattened to its JSON text. Pass --raw to emit records as
the service sends them. A sync always starts from the oldest file; there is
no resume cursor.

Examples:
  ikpack files sync
  ikpack files sync --json
  ikpack files sync --json --raw
  ikpack files sync --query '[.[] | select(.tags | index("cats")) | .fileId]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, "sync_files", nil)
				if err != nil {
					return err
				}

				records, _ := result.Response.([]map[string]interface{})
				if shared.GetJSON() {
					if raw {
						return shared.EmitJSON(cmd.OutOrStdout(), records)
					}
					rows := make([]map[string]interface{}, 0, len(records))
					for _, rec := range records {
						rows = append(rows, imagekit.ProjectFile(rec))
					}
					return shared.EmitJSON(cmd.OutOrStdout(), rows)
				}

				files, err := imagekit.FilesFromRecords(records)
				if err != nil {
					return fmt.Errorf("failed to decode file records: %w", err)
				}
				printFileTable(cmd, files)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Emit records as returned by the service (JSON mode)")

	return cmd
}

// printFileTable writes one line per file.
func printFileTable(cmd *cobra.Command, files []imagekit.File) {
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, shared.RenderEmpty("No files in the media library"))
		return
	}

	fmt.Fprintln(out, shared.RenderTableHeader([]int{26, 32, 26}, "FILE ID", "NAME", "CREATED", "TAGS"))
	for _, f := range files {
		fmt.Fprintf(out, "%-26s %-32s %s %s\n",
			truncate(f.FileID, 26),
			truncate(f.Name, 32),
			shared.Muted.Render(fmt.Sprintf("%-26s", f.CreatedAt)),
			joinTags(f.Tags))
	}
	fmt.Fprintf(out, "\nTotal: %d file(s)\n", len(files))
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return shared.Muted.Render("-")
	}
	return strings.Join(tags, ",")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
