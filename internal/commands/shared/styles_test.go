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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTableHeader(t *testing.T) {
	got := RenderTableHeader([]int{8, 6}, "ID", "NAME", "TAGS")

	// Styles render plain text when output is not a terminal.
	assert.Equal(t, "ID       NAME   TAGS", got)
}

func TestRenderTableHeader_LastColumnUnpadded(t *testing.T) {
	got := RenderTableHeader([]int{4, 20}, "A", "B")
	assert.False(t, strings.HasSuffix(got, " "))
}

func TestRenderHelpers(t *testing.T) {
	assert.Equal(t, SymbolOK+" done", RenderOK("done"))
	assert.Equal(t, SymbolWarn+" careful", RenderWarn("careful"))
	assert.Equal(t, SymbolError+" failed", RenderError("failed"))
	assert.Equal(t, SymbolInfo+" nothing", RenderEmpty("nothing"))
	assert.Equal(t, "[true]", RenderStatus(true, "true"))
	assert.Equal(t, "[false]", RenderStatus(false, "false"))
}
