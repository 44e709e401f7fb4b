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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tombee/ikpack/internal/jq"
)

const (
	queryTimeout      = 5 * time.Second
	queryMaxInputSize = 64 << 20
)

// JSONResponse is the base envelope for command JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// JSONError represents a structured error with code, message, and suggestion
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// emitJSON marshals a response as indented JSON.
func emitJSON(w io.Writer, response interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// EmitJSON writes response to w, filtered through the --query expression
// when one is set.
func EmitJSON(w io.Writer, response interface{}) error {
	query := GetQuery()
	if query == "" {
		return emitJSON(w, response)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	result, err := jq.NewExecutor(queryTimeout, queryMaxInputSize).Execute(ctx, query, response)
	if err != nil {
		return NewValidationExitError(fmt.Sprintf("query %q failed", query), err)
	}

	// Bare strings print unquoted, like jq -r.
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return emitJSON(w, result)
}

// EmitJSONError writes a failed response envelope with the given errors.
func EmitJSONError(w io.Writer, command string, errs []JSONError) error {
	type errorResponse struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}

	return emitJSON(w, errorResponse{
		JSONResponse: JSONResponse{
			Version: "1.0",
			Command: command,
			Success: false,
		},
		Errors: errs,
	})
}
