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

// Package tags provides CLI commands for bulk tag changes.
package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/integration/imagekit"
)

// NewCommand creates the tags command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Add or remove tags on several files at once",
		Long: `Add or remove tags on several files in one request.

Examples:
  ikpack tags add 598821f949c0a938d57563bd 598821f949c0a938d57563be --tags cats,pets
  ikpack tags remove 598821f949c0a938d57563bd --tags pets`,
	}

	cmd.AddCommand(newBulkCommand("add", "add_tags", "Add tags to files", "Tagged"))
	cmd.AddCommand(newBulkCommand("remove", "remove_tags", "Remove tags from files", "Untagged"))

	return cmd
}

// newBulkCommand creates a subcommand running a bulk tag operation.
func newBulkCommand(use, op, short, verb string) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   use + " <file-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags = cleanTags(tags)
			if len(tags) == 0 {
				return shared.NewValidationExitError("at least one tag is required (--tags)", nil)
			}

			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, op, map[string]interface{}{
					"fileIds": args,
					"tags":    tags,
				})
				if err != nil {
					return err
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), result.Response)
				}

				res, _ := result.Response.(imagekit.BulkUpdateResult)
				out := cmd.OutOrStdout()
				for _, id := range res.SuccessfullyUpdatedFileIds {
					fmt.Fprintln(out, shared.RenderOK(verb+" "+id))
				}
				for _, id := range res.PartiallyUpdatedFileIds {
					fmt.Fprintln(out, shared.RenderWarn("Partially updated "+id))
				}
				for _, id := range res.FailedFileIds {
					fmt.Fprintln(out, shared.RenderError("Failed "+id))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags to "+use+" (comma-separated)")

	return cmd
}

// cleanTags trims whitespace and drops empty tags.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
