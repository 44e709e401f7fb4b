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
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/transport"
	pkgerrors "github.com/tombee/ikpack/pkg/errors"
)

// Exit codes for ikpack commands
const (
	ExitSuccess    = 0
	ExitFailed     = 1
	ExitValidation = 2
	ExitAuth       = 3
	ExitUpstream   = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewValidationExitError creates an error for bad command-line input
func NewValidationExitError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitValidation,
		Message: msg,
		Cause:   cause,
	}
}

// NewAuthExitError creates an error for missing or rejected credentials
func NewAuthExitError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitAuth,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCodeFor maps an error to the process exit code.
// Operation and transport errors are classified by type; anything else fails with ExitFailed.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var opErr *operation.Error
	if errors.As(err, &opErr) {
		switch opErr.Type {
		case operation.ErrorTypeValidation, operation.ErrorTypeNotFound:
			return ExitValidation
		case operation.ErrorTypeAuth:
			return ExitAuth
		case operation.ErrorTypeUpstream:
			if opErr.StatusCode == http.StatusUnauthorized || opErr.StatusCode == http.StatusForbidden {
				return ExitAuth
			}
			return ExitUpstream
		}
	}

	var transportErr *transport.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.Type {
		case transport.ErrorTypeAuth:
			return ExitAuth
		case transport.ErrorTypeInvalidReq:
			return ExitValidation
		}
		return ExitUpstream
	}

	var cfgErr *pkgerrors.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitValidation
	}

	return ExitFailed
}

// ErrorCode returns the stable code reported for err in JSON output.
func ErrorCode(err error) string {
	switch ExitCodeFor(err) {
	case ExitValidation:
		return "validation_error"
	case ExitAuth:
		return "auth_error"
	case ExitUpstream:
		return "upstream_error"
	default:
		return "error"
	}
}

// HandleExitError reports err for the given command and exits with its code.
// With --json the error is written to stdout as a JSON envelope.
func HandleExitError(command string, err error) {
	if err == nil {
		return
	}
	if GetJSON() {
		_ = EmitJSONError(os.Stdout, command, []JSONError{jsonErrorFor(err)})
	} else {
		printError(os.Stderr, err)
	}
	os.Exit(ExitCodeFor(err))
}

// jsonErrorFor converts err into its JSON error representation.
func jsonErrorFor(err error) JSONError {
	je := JSONError{Code: ErrorCode(err), Message: err.Error()}
	if userErr, ok := pkgerrors.AsUserVisible(err); ok {
		je.Message = userErr.UserMessage()
		je.Suggestion = userErr.Suggestion()
	}
	return je
}

// printError writes the error message followed by a suggestion when the
// error chain carries a user-visible one.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if userErr, ok := pkgerrors.AsUserVisible(err); ok {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			msg = userErr.UserMessage()
		}
	}
	fmt.Fprintln(w, "Error:", msg)
	printUserVisibleSuggestion(w, err)
}

// printUserVisibleSuggestion prints the suggestion of the first
// UserVisibleError found in the chain.
func printUserVisibleSuggestion(w io.Writer, err error) {
	userErr, ok := pkgerrors.AsUserVisible(err)
	if !ok {
		return
	}
	if suggestion := userErr.Suggestion(); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
}
