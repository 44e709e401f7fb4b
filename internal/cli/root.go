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

package cli

import (
	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/auth"
	"github.com/tombee/ikpack/internal/commands/completion"
	"github.com/tombee/ikpack/internal/commands/config"
	"github.com/tombee/ikpack/internal/commands/files"
	"github.com/tombee/ikpack/internal/commands/metadata"
	"github.com/tombee/ikpack/internal/commands/operations"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/commands/tags"
	"github.com/tombee/ikpack/internal/commands/version"
)

// Command groups shown in help output.
const (
	GroupMedia = "media"
	GroupSetup = "setup"
	GroupInfo  = "info"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for ikpack with every
// subcommand registered.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ikpack",
		Short: "ikpack - ImageKit media library connector",
		Long: `ikpack syncs, uploads and annotates files in an ImageKit media library.

It lists every file with its metadata, uploads files from URLs or local
paths, edits tags, coordinates and custom metadata, and exposes the same
operations as a connector for automation.

Run 'ikpack auth login' to store your ImageKit private key.
Run 'ikpack operations' to list the connector operations.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	verbose, quiet, json, configPath, query := shared.RegisterFlagPointers()

	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(configPath, "config", "", "Path to config file (default: ~/.config/ikpack/config.yaml)")
	cmd.PersistentFlags().StringVar(query, "query", "", "jq expression applied to JSON output (implies --json)")

	cmd.AddGroup(
		&cobra.Group{ID: GroupMedia, Title: "Media Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: GroupInfo, Title: "Info Commands:"},
	)

	addGrouped(cmd, GroupMedia, files.NewCommand(), tags.NewCommand(), metadata.NewCommand())
	addGrouped(cmd, GroupSetup, auth.NewCommand(), config.NewConfigCommand())
	addGrouped(cmd, GroupInfo, operations.NewCommand(), version.NewVersionCommand(), completion.NewCommand())

	cmd.SetHelpCommand(NewHelpCommand(cmd))
	cmd.SetHelpCommandGroupID(GroupInfo)

	return cmd
}

func addGrouped(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError reports err for the command that failed and exits with
// the matching exit code.
func HandleExitError(command string, err error) {
	shared.HandleExitError(command, err)
}
