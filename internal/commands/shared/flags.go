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

package shared

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	Verbose    bool
	Quiet      bool
	JSON       bool
	ConfigPath string

	// Query is a jq expression applied to JSON output. Setting it implies JSON.
	Query string
}

var (
	globals GlobalOptions

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterFlagPointers returns pointers to the global options in the order
// verbose, quiet, json, config, query. Called by the root command to bind
// its persistent flags.
func RegisterFlagPointers() (*bool, *bool, *bool, *string, *string) {
	return &globals.Verbose, &globals.Quiet, &globals.JSON, &globals.ConfigPath, &globals.Query
}

// Options returns a copy of the parsed global options.
func Options() GlobalOptions {
	return globals
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVersion returns version, commit and build date.
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

func GetConfigPath() string { return globals.ConfigPath }
func GetQuery() string      { return globals.Query }

// GetJSON reports whether output should be JSON.
func GetJSON() bool {
	return globals.JSON || globals.Query != ""
}

// SetConfigPathForTest sets the config path for testing purposes
func SetConfigPathForTest(path string) {
	globals.ConfigPath = path
}

// SetOutputFlagsForTest sets the output flags for testing purposes
func SetOutputFlagsForTest(json bool, query string) {
	globals.JSON = json
	globals.Query = query
}

// ResetFlagsForTest clears all global options.
func ResetFlagsForTest() {
	globals = GlobalOptions{}
}
