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

package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/config"
)

// Info describes the build and the ImageKit endpoints it talks to.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	UserAgent string `json:"user_agent"`
	BaseURL   string `json:"base_url"`
	UploadURL string `json:"upload_url"`
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the ikpack version, build details and the ImageKit endpoints
requests are sent to.

The endpoints come from the config file and environment. A config file that
fails to load is reported as a warning and the defaults are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, loadErr := collect()

			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, info.Version)
				return nil
			}
			if shared.GetJSON() {
				return shared.EmitJSON(out, info)
			}

			fmt.Fprintf(out, "ikpack version %s\n", info.Version)
			fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("commit:    "), info.Commit)
			fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("build date:"), info.BuildDate)
			fmt.Fprintf(out, "  %s %s %s\n", shared.RenderLabel("go:        "), info.GoVersion, info.Platform)
			fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("api:       "), info.BaseURL)
			fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("upload:    "), info.UploadURL)
			if loadErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), shared.RenderWarn("config not loaded: "+loadErr.Error()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}

func collect() (Info, error) {
	v, c, b := shared.GetVersion()
	info := Info{
		Version:   v,
		Commit:    c,
		BuildDate: b,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		UserAgent: shared.UserAgent(),
	}

	cfg, _, err := shared.LoadConfig()
	if err != nil {
		cfg = config.Default()
	}
	info.BaseURL = cfg.ImageKit.BaseURL
	info.UploadURL = cfg.ImageKit.UploadURL
	return info, err
}
