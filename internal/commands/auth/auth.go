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

// Package auth provides CLI commands for storing the ImageKit private key.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/commands/completion"
	"github.com/tombee/ikpack/internal/commands/shared"
	internallog "github.com/tombee/ikpack/internal/log"
	"github.com/tombee/ikpack/internal/secrets"
	"golang.org/x/term"
)

// NewCommand creates the auth command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the ImageKit private key",
		Long: `Manage the ImageKit private key used for every request.

The key is resolved from these backends, highest priority first:
  1. Environment: IKPACK_PRIVATE_KEY or IKPACK_SECRET_IMAGEKIT_PRIVATE_KEY (read-only)
  2. System keychain (macOS Keychain, Linux Secret Service, Windows Credential Manager)

Examples:
  ikpack auth login
  echo "$IMAGEKIT_PRIVATE_KEY" | ikpack auth login
  ikpack auth status --verify
  ikpack auth logout`,
	}

	cmd.AddCommand(newLoginCommand())
	cmd.AddCommand(newLogoutCommand())
	cmd.AddCommand(newStatusCommand())

	return cmd
}

func newLoginCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the private key",
		Long: `Store the ImageKit private key in a writable backend.

The key is read from standard input when it is piped, otherwise from a
hidden prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readPrivateKey(cmd)
			if err != nil {
				return fmt.Errorf("failed to read private key: %w", err)
			}
			if key == "" {
				return shared.NewValidationExitError("private key cannot be empty", nil)
			}

			resolver := shared.NewSecretsResolver()
			if err := resolver.Set(cmd.Context(), secrets.PrivateKeyKey, key, backend); err != nil {
				if errors.Is(err, secrets.ErrBackendUnavailable) || errors.Is(err, secrets.ErrReadOnlyBackend) {
					return shared.NewAuthExitError("no writable secret backend", fmt.Errorf("%w\n\nSet %s instead", err, secrets.PrivateKeyEnv))
				}
				return shared.NewAuthExitError("failed to store private key", err)
			}

			_, used, err := resolver.Lookup(cmd.Context(), secrets.PrivateKeyKey)
			if err == nil && used == "env" {
				fmt.Fprintln(cmd.OutOrStdout(), shared.RenderWarn("Key stored, but the environment value takes precedence"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Private key stored"))
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Target backend (default: first writable)")
	_ = cmd.RegisterFlagCompletionFunc("backend", completion.CompleteSecretsBackend)

	return cmd
}

func newLogoutCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := shared.NewSecretsResolver()
			err := resolver.Delete(cmd.Context(), secrets.PrivateKeyKey, backend)
			switch {
			case errors.Is(err, secrets.ErrSecretNotFound):
				fmt.Fprintln(cmd.OutOrStdout(), shared.RenderEmpty("No stored private key"))
				return nil
			case err != nil:
				return shared.NewAuthExitError("failed to remove private key", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK("Private key removed"))
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Backend to remove the key from (default: first writable)")
	_ = cmd.RegisterFlagCompletionFunc("backend", completion.CompleteSecretsBackend)

	return cmd
}

// authStatus is the JSON form of auth status.
type authStatus struct {
	Authenticated bool     `json:"authenticated"`
	Backend       string   `json:"backend,omitempty"`
	Key           string   `json:"key,omitempty"`
	Backends      []string `json:"backends"`
	Verified      *bool    `json:"verified,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func newStatusCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the private key is resolved from",
		Long: `Show which backend supplies the private key. The key itself is masked.

With --verify a single request is made to confirm that ImageKit accepts it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := shared.NewSecretsResolver()
			status := authStatus{Backends: resolver.Backends()}

			key, backend, err := resolver.Lookup(cmd.Context(), secrets.PrivateKeyKey)
			if err == nil {
				status.Authenticated = true
				status.Backend = backend
				status.Key = internallog.SanitizeAPIKey(key)
			}

			var verifyErr error
			if verify && status.Authenticated {
				verifyErr = verifyKey(cmd.Context())
				ok := verifyErr == nil
				status.Verified = &ok
				if verifyErr != nil {
					status.Error = verifyErr.Error()
				}
			}

			if shared.GetJSON() {
				if err := shared.EmitJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			} else {
				printStatus(cmd.OutOrStdout(), status)
			}

			if !status.Authenticated {
				return shared.NewAuthExitError("no private key configured", err)
			}
			return verifyErr
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Make a request to check the key")

	return cmd
}

func printStatus(out io.Writer, status authStatus) {
	if !status.Authenticated {
		fmt.Fprintln(out, shared.RenderError("No private key configured"))
		fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Backends:"), strings.Join(status.Backends, ", "))
		return
	}

	fmt.Fprintln(out, shared.RenderOK("Private key configured"))
	fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Backend: "), status.Backend)
	fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Key:     "), status.Key)
	if status.Verified != nil {
		fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Verified:"), shared.RenderStatus(*status.Verified, fmt.Sprint(*status.Verified)))
	}
}

// verifyKey makes one authenticated request.
func verifyKey(ctx context.Context) error {
	return shared.WithRuntime(ctx, func(ctx context.Context, rt *shared.Runtime) error {
		_, err := rt.Execute(ctx, "list_custom_metadata_fields", nil)
		return err
	})
}

// readPrivateKey reads the key from a hidden prompt on a terminal, or from
// the command's input otherwise.
func readPrivateKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "ImageKit private key (hidden): ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
