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

package completion

import (
	"github.com/spf13/cobra"
	"github.com/tombee/ikpack/internal/integration/imagekit"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/operation/transport"
)

// CompleteSecretsBackend provides completion for --backend flag values.
func CompleteSecretsBackend(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(toComplete, func() ([]string, cobra.ShellCompDirective) {
		backends := []string{
			"env\tEnvironment variables",
			"keychain\tSystem keychain (macOS/Linux)",
		}
		return backends, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteOperations provides completion for operation names with descriptions.
// No credentials are needed; the listing is static.
func CompleteOperations(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(toComplete, func() ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		integration, err := imagekit.NewImageKitIntegration(&api.ProviderConfig{
			Transport: &transport.UnauthenticatedTransport{},
		})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var completions []string
		for _, op := range integration.Operations() {
			completions = append(completions, op.Name+"\t"+op.Description)
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})
}
