package operation

import (
	"fmt"
	"net/http"
)

// ErrorType classifies operation errors for appropriate handling.
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed user input, detected before any request
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeUpstream indicates a non-2xx response or a 2xx missing expected fields
	ErrorTypeUpstream ErrorType = "upstream_error"

	// ErrorTypeAuth indicates no usable credential was available
	ErrorTypeAuth ErrorType = "auth_error"

	// ErrorTypeNotFound indicates an unknown provider or operation
	ErrorTypeNotFound ErrorType = "not_found"
)

// Error represents an operation execution error with classification.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is the human-readable error description
	Message string

	// Input echoes the offending user input for validation errors
	Input string

	// StatusCode is the upstream HTTP status code (if applicable)
	StatusCode int

	// SuggestText provides guidance on how to resolve the error.
	SuggestText string

	// RequestID from the external service
	RequestID string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("OperationError: %s", e.Message)

	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}

	if e.Input != "" {
		msg = fmt.Sprintf("%s (input: %q)", msg, e.Input)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *Error) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *Error) UserMessage() string {
	if e.Input != "" {
		return fmt.Sprintf("%s (input: %q)", e.Message, e.Input)
	}
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// NewValidationError creates an error for malformed user input.
// The offending input is echoed back to the caller.
func NewValidationError(message, input string, cause error) *Error {
	return &Error{
		Type:        ErrorTypeValidation,
		Message:     message,
		Input:       input,
		Cause:       cause,
		SuggestText: "Check the input value and try again",
	}
}

// NewMissingParameterError creates a validation error for a required input.
func NewMissingParameterError(param string) *Error {
	return &Error{
		Type:        ErrorTypeValidation,
		Message:     fmt.Sprintf("missing required parameter: %s", param),
		SuggestText: "Check request inputs against the operation schema",
	}
}

// NewUpstreamError creates an error for an unexpected upstream payload.
func NewUpstreamError(message string, statusCode int) *Error {
	return &Error{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: statusCode,
	}
}

// ErrorFromHTTPStatus creates an upstream Error from a non-2xx response.
// When the service supplied a message it is used verbatim; otherwise the
// status text is used.
func ErrorFromHTTPStatus(statusCode int, serviceMessage, requestID string) *Error {
	msg := serviceMessage
	if msg == "" {
		msg = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}

	err := &Error{
		Type:       ErrorTypeUpstream,
		StatusCode: statusCode,
		Message:    msg,
		RequestID:  requestID,
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		err.SuggestText = "Check the private key with 'ikpack auth status'"
	case statusCode == http.StatusNotFound:
		err.SuggestText = "Verify the file ID exists"
	case statusCode == http.StatusTooManyRequests:
		err.SuggestText = "Lower imagekit.requests_per_second and retry later"
	case statusCode >= 500:
		err.SuggestText = "The service is unavailable; retry later"
	}

	return err
}

// NewAuthError creates an error for a missing credential.
func NewAuthError(cause error) *Error {
	return &Error{
		Type:        ErrorTypeAuth,
		Message:     "no ImageKit private key configured",
		Cause:       cause,
		SuggestText: "Run 'ikpack auth login' or set IKPACK_PRIVATE_KEY",
	}
}
