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

// Package operations provides the CLI command listing connector operations.
package operations

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/completion"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
)

// Operation is the JSON form of one operation.
type Operation struct {
	Name        string      `json:"name"`
	Reference   string      `json:"reference"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Returns     *Returns    `json:"returns,omitempty"`
}

// Returns describes the record an operation returns.
type Returns struct {
	Identity        string   `json:"identity"`
	IDProperty      string   `json:"idProperty,omitempty"`
	DisplayProperty string   `json:"displayProperty,omitempty"`
	Featured        []string `json:"featured,omitempty"`
	Fields          []Field  `json:"fields,omitempty"`
}

// Field is the JSON form of one response field.
type Field struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Fields []Field `json:"fields,omitempty"`
}

// Parameter is the JSON form of one operation input.
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
}

// NewCommand creates the operations command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations [name]",
		Short: "List connector operations and their inputs",
		Long: `List the ImageKit connector operations.

With a name, show that operation's inputs in the order they are sent.

Examples:
  ikpack operations
  ikpack operations upload_file
  ikpack operations --query '.[].reference'`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completion.CompleteOperations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.WithRuntime(cmd.Context(), func(ctx context.Context, rt *shared.Runtime) error {
				typed, err := rt.Operations()
				if err != nil {
					return err
				}

				ops := describe(typed)
				if len(args) == 1 {
					for _, op := range ops {
						if op.Name == args[0] {
							if shared.GetJSON() {
								return shared.EmitJSON(cmd.OutOrStdout(), op)
							}
							printOperation(cmd.OutOrStdout(), op)
							return nil
						}
					}
					return &operation.Error{
						Type:        operation.ErrorTypeNotFound,
						Message:     fmt.Sprintf("unknown operation: %s", args[0]),
						SuggestText: "Run 'ikpack operations' to list available operations",
					}
				}

				if shared.GetJSON() {
					return shared.EmitJSON(cmd.OutOrStdout(), ops)
				}
				printOperations(cmd.OutOrStdout(), ops)
				return nil
			})
		},
	}

	return cmd
}

// describe merges operation metadata with each operation's schema.
func describe(typed api.TypedProvider) []Operation {
	infos := typed.Operations()
	ops := make([]Operation, 0, len(infos))
	for _, info := range infos {
		op := Operation{
			Name:        info.Name,
			Reference:   shared.ProviderName + "." + info.Name,
			Description: info.Description,
			Category:    info.Category,
			Tags:        info.Tags,
		}
		if schema := typed.OperationSchema(info.Name); schema != nil {
			for _, p := range schema.Parameters {
				op.Parameters = append(op.Parameters, Parameter{
					Name:        p.Name,
					Type:        p.Type,
					Description: p.Description,
					Required:    p.Required,
					Default:     p.Default,
				})
			}
			if rec := schema.Record; rec != nil {
				op.Returns = &Returns{
					Identity:        rec.Identity,
					IDProperty:      rec.IDProperty,
					DisplayProperty: rec.DisplayProperty,
					Featured:        rec.Featured,
					Fields:          fields(schema.ResponseFields),
				}
			}
		}
		ops = append(ops, op)
	}
	return ops
}

func fields(infos []api.ResponseFieldInfo) []Field {
	if len(infos) == 0 {
		return nil
	}
	out := make([]Field, 0, len(infos))
	for _, f := range infos {
		out = append(out, Field{Name: f.Name, Type: f.Type, Fields: fields(f.Fields)})
	}
	return out
}

func printOperations(w io.Writer, ops []Operation) {
	fmt.Fprintln(w, shared.RenderTableHeader([]int{30, 10}, "OPERATION", "CATEGORY", "DESCRIPTION"))
	for _, op := range ops {
		fmt.Fprintf(w, "%-30s %s %s\n",
			op.Name,
			shared.Muted.Render(fmt.Sprintf("%-10s", op.Category)),
			op.Description)
	}
}

func printOperation(w io.Writer, op Operation) {
	fmt.Fprintf(w, "%s %s\n\n", shared.Header.Render(op.Reference), shared.Muted.Render("("+op.Category+")"))
	fmt.Fprintln(w, op.Description)
	if len(op.Parameters) > 0 {
		printInputs(w, op.Parameters)
	}
	if op.Returns != nil {
		printReturns(w, op.Returns)
	}
}

func printInputs(w io.Writer, params []Parameter) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, shared.Header.Render("Inputs:"))
	for _, p := range params {
		required := ""
		if p.Required {
			required = shared.StatusWarn.Render(" (required)")
		}
		def := ""
		if p.Default != nil {
			def = shared.Muted.Render(fmt.Sprintf(" [default: %v]", p.Default))
		}
		fmt.Fprintf(w, "  %-26s %-8s %s%s%s\n", p.Name, p.Type, p.Description, required, def)
	}
}

func printReturns(w io.Writer, r *Returns) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, shared.Header.Render("Returns: "+r.Identity))
	if r.IDProperty != "" {
		fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel("id:     "), r.IDProperty)
	}
	if r.DisplayProperty != "" {
		fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel("label:  "), r.DisplayProperty)
	}
	if len(r.Featured) > 0 {
		fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel("shown:  "), strings.Join(r.Featured, ", "))
	}
	printFields(w, r.Fields, "  ")
}

func printFields(w io.Writer, fields []Field, indent string) {
	for _, f := range fields {
		fmt.Fprintf(w, "%s%-26s %s\n", indent, f.Name, shared.Muted.Render(f.Type))
		printFields(w, f.Fields, indent+"  ")
	}
}
