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

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/shared"
	"github.com/tombee/ikpack/internal/config"
	ikerrors "github.com/tombee/ikpack/pkg/errors"
)

// ValidationResult represents the result of config validation.
type ValidationResult struct {
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the 'config validate' subcommand.
func NewValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the configuration file.

Checks performed:
  - YAML syntax and structure
  - Endpoint URLs, timeout, cache and rate limit values
  - Log level and format
  - Tracing exporter settings

With --strict, warnings are treated as errors.`,
		Example: `  # Validate configuration
  ikpack config validate

  # Validate with warnings as errors
  ikpack config validate --strict

  # Get validation result as JSON
  ikpack config validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := resolveConfigPath()
			if err != nil {
				return err
			}
			return outputValidationResult(cmd.OutOrStdout(), runValidate(cfgPath), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}

// runValidate loads and checks the config file at cfgPath.
func runValidate(cfgPath string) ValidationResult {
	result := ValidationResult{Path: cfgPath}

	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		result.Errors = []string{fmt.Sprintf("%v at %s. Run 'ikpack config init' to create one.", errNoConfigFile, cfgPath)}
		return result
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		var cfgErr *ikerrors.ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Cause != nil {
			result.Errors = []string{fmt.Sprintf("%s: %v", cfgErr.Key, cfgErr.Cause)}
		} else {
			result.Errors = []string{err.Error()}
		}
		return result
	}

	result.Warnings = configWarnings(cfg)
	result.Valid = true
	return result
}

// configWarnings reports settings that are valid but probably unintended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if strings.HasPrefix(cfg.ImageKit.BaseURL, "http://") {
		warnings = append(warnings, "imagekit.base_url uses plain HTTP; the private key is sent with every request")
	}
	if strings.HasPrefix(cfg.ImageKit.UploadURL, "http://") {
		warnings = append(warnings, "imagekit.upload_url uses plain HTTP; the private key is sent with every request")
	}
	if !cfg.Tracing.Enabled && cfg.Tracing.Endpoint != "" {
		warnings = append(warnings, "tracing.endpoint is set but tracing is disabled")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter != "stdout" && cfg.Tracing.Endpoint == "" {
		warnings = append(warnings, fmt.Sprintf("tracing.exporter %q has no endpoint; the exporter default is used", cfg.Tracing.Exporter))
	}
	if cfg.Tracing.Exporter == "stdout" && cfg.Tracing.Insecure {
		warnings = append(warnings, "tracing.insecure has no effect with the stdout exporter")
	}

	return warnings
}

// outputValidationResult writes the result and returns an error when it fails.
func outputValidationResult(w io.Writer, result ValidationResult, strict bool) error {
	if shared.GetJSON() {
		if err := shared.EmitJSON(w, result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Fprintln(w, shared.RenderOK("Configuration is valid"))
		} else {
			fmt.Fprintln(w, shared.RenderError("Configuration validation failed"))
		}
		fmt.Fprintln(w)

		if len(result.Errors) > 0 {
			fmt.Fprintln(w, shared.Header.Render("Errors:"))
			for _, err := range result.Errors {
				fmt.Fprintf(w, "  %s %s\n", shared.StatusError.Render(shared.SymbolError), err)
			}
			fmt.Fprintln(w)
		}

		if len(result.Warnings) > 0 {
			fmt.Fprintln(w, shared.Header.Render("Warnings:"))
			for _, warn := range result.Warnings {
				fmt.Fprintf(w, "  %s %s\n", shared.StatusWarn.Render(shared.SymbolWarn), warn)
			}
			fmt.Fprintln(w)
		}

		if result.Valid && len(result.Warnings) == 0 {
			fmt.Fprintln(w, "No issues found.")
		}
	}

	if !result.Valid {
		return shared.NewValidationExitError("configuration is invalid", nil)
	}

	// In strict mode, warnings become errors
	if strict && len(result.Warnings) > 0 {
		return shared.NewValidationExitError("validation failed (strict mode: warnings treated as errors)", nil)
	}

	return nil
}

// errNoConfigFile is reported by validate when there is nothing to check.
var errNoConfigFile = errors.New("no configuration file found")
