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
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSecretsBackend(t *testing.T) {
	completions, directive := CompleteSecretsBackend(nil, nil, "")

	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	require.Len(t, completions, 2)
	assert.True(t, strings.HasPrefix(completions[0], "env\t"))
	assert.True(t, strings.HasPrefix(completions[1], "keychain\t"))

	completions, _ = CompleteSecretsBackend(nil, nil, "key")
	require.Len(t, completions, 1)
	assert.True(t, strings.HasPrefix(completions[0], "keychain\t"))
}

func TestCompleteOperations(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		toComplete string
		want       []string
	}{
		{name: "prefix", toComplete: "sync", want: []string{"sync_files"}},
		{name: "tags", toComplete: "", want: []string{"add_tags", "remove_tags"}},
		{name: "no match", toComplete: "zzz", want: nil},
		{name: "already given", args: []string{"sync_files"}, toComplete: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completions, directive := CompleteOperations(nil, tt.args, tt.toComplete)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

			var names []string
			for _, c := range completions {
				names = append(names, strings.SplitN(c, "\t", 2)[0])
			}
			for _, w := range tt.want {
				assert.Contains(t, names, w)
			}
			if tt.want == nil {
				assert.Empty(t, completions)
			}
		})
	}
}

func TestSafeCompletionWrapper(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		results, directive := SafeCompletionWrapper("", func() ([]string, cobra.ShellCompDirective) {
			panic("boom")
		})
		assert.Empty(t, results)
		assert.NotNil(t, results)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})

	t.Run("nil results become empty", func(t *testing.T) {
		results, _ := SafeCompletionWrapper("", func() ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		})
		assert.NotNil(t, results)
	})

	t.Run("filters on value not description", func(t *testing.T) {
		results, _ := SafeCompletionWrapper("b", func() ([]string, cobra.ShellCompDirective) {
			return []string{"alpha\tbeta", "beta\talpha"}, cobra.ShellCompDirectiveNoFileComp
		})
		assert.Equal(t, []string{"beta\talpha"}, results)
	})

	t.Run("passes through", func(t *testing.T) {
		results, directive := SafeCompletionWrapper("", func() ([]string, cobra.ShellCompDirective) {
			return []string{"a"}, cobra.ShellCompDirectiveDefault
		})
		assert.Equal(t, []string{"a"}, results)
		assert.Equal(t, cobra.ShellCompDirectiveDefault, directive)
	})
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := &cobra.Command{Use: "ikpack"}
			root.AddCommand(NewCommand())

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "ikpack")
		})
	}

	t.Run("rejects unknown shell", func(t *testing.T) {
		root := &cobra.Command{Use: "ikpack", SilenceErrors: true, SilenceUsage: true}
		root.AddCommand(NewCommand())
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"completion", "tcsh"})
		assert.Error(t, root.Execute())
	})
}
