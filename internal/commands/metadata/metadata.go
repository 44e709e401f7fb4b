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

// Package metadata provides CLI commands for ImageKit custom metadata.
package metadata

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/integration/imagekit"
)

// NewCommand creates the metadata command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Work with custom metadata",
		Long: `Work with custom metadata.

Examples:
  # Normalize a metadata object before sending it elsewhere
  ikpack metadata parse '{"brand":"acme","sku":"","color":null}'

  # List the account's custom metadata fields
  ikpack metadata fields`,
	}

	cmd.AddCommand(NewParseCommand())
	cmd.AddCommand(NewFieldsCommand())

	return cmd
}

// NewParseCommand creates the metadata parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [json]",
		Short: "Parse a JSON object into custom metadata",
		Long: `Parse a JSON object into a custom metadata object.

Top-level keys whose value is null or an empty string are dropped. Nested
values are kept as given. Empty input yields an empty object. The JSON is
read from standard input when no argument is given.

No request is sent and no private key is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read standard input: %w", err)
				}
				input = strings.TrimSpace(string(data))
			}

			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, "create_custom_metadata", map[string]interface{}{"json": input})
				if err != nil {
					return err
				}
				return shared.EmitJSON(cmd.OutOrStdout(), result.Response)
			})
		},
	}

	return cmd
}

// NewFieldsCommand creates the metadata fields command.
func NewFieldsCommand() *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List custom metadata field definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				result, err := rt.Execute(ctx, "list_custom_metadata_fields", map[string]interface{}{
					"includeDeleted": includeDeleted,
				})
				if err != nil {
					return err
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), result.Response)
				}

				fields, _ := result.Response.([]imagekit.CustomMetadataField)
				out := cmd.OutOrStdout()
				if len(fields) == 0 {
					fmt.Fprintln(out, shared.RenderEmpty("No custom metadata fields defined"))
					return nil
				}
				fmt.Fprintln(out, shared.RenderTableHeader([]int{24, 24}, "NAME", "LABEL", "TYPE"))
				for _, f := range fields {
					fieldType, _ := f.Schema["type"].(string)
					fmt.Fprintf(out, "%-24s %-24s %s\n", f.Name, f.Label, shared.Muted.Render(fieldType))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include deleted fields")

	return cmd
}
