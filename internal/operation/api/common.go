// Package api provides common types and utilities for API integrations.
package api

import (
	"github.com/tombee/ikpack/internal/operation/transport"
)

// ProviderConfig holds configuration for API integrations.
// Credentials are not carried here; they belong to the transport.
type ProviderConfig struct {
	// Transport executes requests (required)
	Transport transport.Transport

	// BaseURL is the API base URL for relative endpoints
	BaseURL string

	// UploadURL is the absolute endpoint for uploads, when the service has one
	UploadURL string
}

// OperationInfo provides metadata about an integration operation.
type OperationInfo struct {
	// Name is the operation identifier (e.g., "sync_files")
	Name string

	// Description is a human-readable description
	Description string

	// Category groups related operations (e.g., "files", "metadata")
	Category string

	// Tags classify operations (e.g., "read", "write", "sync")
	Tags []string
}

// OperationSchema describes an operation's inputs and outputs.
type OperationSchema struct {
	// Description is a human-readable description
	Description string

	// Parameters describes the operation inputs, in wire order
	Parameters []ParameterInfo

	// ResponseFields describes the response structure
	ResponseFields []ResponseFieldInfo

	// Record identifies the record type returned, if any
	Record *RecordInfo
}

// RecordInfo describes the record type an operation returns.
type RecordInfo struct {
	// Identity names the record type
	Identity string

	// IDProperty uniquely identifies a record
	IDProperty string

	// DisplayProperty labels a record
	DisplayProperty string

	// Featured lists the properties shown by default
	Featured []string
}

// ParameterInfo describes an operation parameter.
type ParameterInfo struct {
	// Name is the parameter identifier
	Name string

	// Type is the parameter type (string, integer, boolean, array, object)
	Type string

	// Description is a human-readable description
	Description string

	// Required indicates if the parameter is required
	Required bool

	// Default is the default value (nil if no default)
	Default interface{}
}

// ResponseFieldInfo describes a response field.
type ResponseFieldInfo struct {
	// Name is the field identifier
	Name string

	// Type is the field type (string, integer, boolean, array, object)
	Type string

	// Description is a human-readable description
	Description string

	// Fields describes nested object or array element fields
	Fields []ResponseFieldInfo
}

// TypedProvider exposes operation metadata for discovery.
type TypedProvider interface {
	// Operations returns the list of available operations with metadata.
	Operations() []OperationInfo

	// OperationSchema returns the operation description and parameter information.
	// Returns nil if the operation doesn't exist.
	OperationSchema(operation string) *OperationSchema
}
