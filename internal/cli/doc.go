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

/*
Package cli provides the root command for the ikpack CLI.

This package creates the Cobra command tree and handles global concerns like
version information, persistent flags, and exit codes. Individual commands
are implemented in the internal/commands subpackages.

# Command Tree

	ikpack
	├── files         sync, get, upload, update
	├── tags          add, remove
	├── metadata      parse, fields
	├── auth          login, logout, status
	├── config        show, path, init, validate
	├── operations    List connector operations
	├── version       Show version
	├── completion    Shell completion scripts
	└── help          Show help

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	rootCmd := cli.NewRootCommand()
	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
	    cli.HandleExitError(cmd.CommandPath(), err)
	}

# Global Flags

All commands inherit these flags:

	--verbose, -v    Enable verbose output
	--quiet, -q      Suppress non-error output
	--json           Output in JSON format
	--query          jq expression applied to JSON output
	--config         Path to config file

# Exit Codes

  - Exit 0: Success
  - Exit 1: General error
  - Exit 2: Invalid input or configuration
  - Exit 3: Missing or rejected credentials
  - Exit 4: ImageKit API or network failure
*/
package cli
