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

package errors

// UserVisibleError is implemented by errors the CLI prints with a
// friendly message and a suggestion instead of the raw error text.
//
// operation.Error and transport.TransportError implement it.
type UserVisibleError interface {
	error

	// IsUserVisible reports whether the error should be shown to users.
	IsUserVisible() bool

	// UserMessage returns the message shown to users.
	UserMessage() string

	// Suggestion returns guidance for resolving the error, or "".
	Suggestion() string
}
