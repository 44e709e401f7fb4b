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

// Package files provides CLI commands for ImageKit media files.
package files

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the files command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List, inspect, upload and update media files",
		Long: `Work with files in the ImageKit media library.

Every command makes exactly one request per file. Failed requests are
reported with the upstream message and are not retried.

Examples:
  # List every file, oldest first
  ikpack files sync

  # Show one file
  ikpack files get 598821f949c0a938d57563bd

  # Upload local images into a folder
  ikpack files upload 'photos/**/*.jpg' --folder /pets --tags pets,cats

  # Clear all custom metadata on a file
  ikpack files update 598821f949c0a938d57563bd --custom-metadata ''`,
	}

	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewGetCommand())
	cmd.AddCommand(NewUploadCommand())
	cmd.AddCommand(NewUpdateCommand())

	return cmd
}
