// Package imagekit implements the ImageKit media-management integration.
package imagekit

import (
	"context"
	"fmt"
	"strings"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/operation/multipart"
	"github.com/tombee/ikpack/internal/schema"
)

const (
	// DefaultBaseURL is the ImageKit media API base.
	DefaultBaseURL = "https://api.imagekit.io/v1"

	// DefaultUploadURL is the ImageKit upload endpoint.
	DefaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

	// MaxPageSize caps the single listing request made by a sync. It is a
	// guard against oversized responses, not a pagination cursor.
	MaxPageSize = 1000

	// SortAscCreated orders listings by ascending creation time.
	SortAscCreated = "ASC_CREATED"
)

// ImageKitIntegration implements the Connector interface for the ImageKit API.
type ImageKitIntegration struct {
	*api.BaseProvider
	uploadURL string
	boundary  string
}

// NewImageKitIntegration creates a new ImageKit integration.
func NewImageKitIntegration(config *api.ProviderConfig) (*ImageKitIntegration, error) {
	if config.Transport == nil {
		return nil, fmt.Errorf("transport is required for ImageKit integration")
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	uploadURL := cfg.UploadURL
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	if !strings.HasPrefix(uploadURL, "http://") && !strings.HasPrefix(uploadURL, "https://") {
		return nil, fmt.Errorf("upload URL must be absolute, got %q", uploadURL)
	}

	return &ImageKitIntegration{
		BaseProvider: api.NewBaseProvider("imagekit", &cfg),
		uploadURL:    uploadURL,
		boundary:     multipart.DefaultBoundary,
	}, nil
}

// Execute runs a named operation with the given inputs.
func (c *ImageKitIntegration) Execute(ctx context.Context, op string, inputs map[string]interface{}) (*operation.Result, error) {
	if inputs == nil {
		inputs = map[string]interface{}{}
	}

	switch op {
	// Files
	case "sync_files":
		return c.syncFiles(ctx, inputs)
	case "get_file_details":
		return c.getFileDetails(ctx, inputs)
	case "upload_file":
		return c.uploadFile(ctx, inputs)
	case "update_file_details":
		return c.updateFileDetails(ctx, inputs)

	// Tags
	case "add_tags":
		return c.bulkTags(ctx, "files/addTags", inputs)
	case "remove_tags":
		return c.bulkTags(ctx, "files/removeTags", inputs)

	// Custom metadata
	case "create_custom_metadata":
		return c.createCustomMetadata(inputs)
	case "list_custom_metadata_fields":
		return c.listCustomMetadataFields(ctx, inputs)

	default:
		return nil, &operation.Error{
			Type:        operation.ErrorTypeNotFound,
			Message:     fmt.Sprintf("unknown operation: %s", op),
			SuggestText: "Run 'ikpack operations' to list available operations",
		}
	}
}

// Operations returns the list of available operations.
func (c *ImageKitIntegration) Operations() []api.OperationInfo {
	return []api.OperationInfo{
		{Name: "sync_files", Description: "List every file, oldest first", Category: "files", Tags: []string{"read", "sync"}},
		{Name: "get_file_details", Description: "Get the details of one file", Category: "files", Tags: []string{"read"}},
		{Name: "upload_file", Description: "Upload a file from a URL or base64 payload", Category: "files", Tags: []string{"write"}},
		{Name: "update_file_details", Description: "Update tags, coordinates and custom metadata of a file", Category: "files", Tags: []string{"write"}},
		{Name: "add_tags", Description: "Add tags to several files", Category: "tags", Tags: []string{"write", "bulk"}},
		{Name: "remove_tags", Description: "Remove tags from several files", Category: "tags", Tags: []string{"write", "bulk"}},
		{Name: "create_custom_metadata", Description: "Build a custom metadata object from JSON", Category: "metadata", Tags: []string{"local"}},
		{Name: "list_custom_metadata_fields", Description: "List custom metadata field definitions", Category: "metadata", Tags: []string{"read"}},
	}
}

// OperationSchema returns the schema for an operation.
func (c *ImageKitIntegration) OperationSchema(op string) *api.OperationSchema {
	switch op {
	case "sync_files":
		return &api.OperationSchema{
			Description: "List every file in the media library sorted by ascending creation time",
			ResponseFields: []api.ResponseFieldInfo{
				{Name: "[]", Type: "array", Description: "Raw file records"},
			},
			Record: recordInfo(FileSchema),
		}
	case "get_file_details":
		return &api.OperationSchema{
			Description: "Get the details of one file",
			Parameters: []api.ParameterInfo{
				{Name: "fileId", Type: "string", Description: "The unique ID of the file", Required: true},
			},
			ResponseFields: responseFields(FileSchema),
			Record:         recordInfo(FileSchema),
		}
	case "upload_file":
		return &api.OperationSchema{
			Description: "Upload a file and return its URL",
			Parameters:  uploadParameters,
			ResponseFields: []api.ResponseFieldInfo{
				{Name: "url", Type: "string", Description: "Public URL of the uploaded file"},
			},
		}
	case "update_file_details":
		return &api.OperationSchema{
			Description:    "Update details of a file",
			Parameters:     updateParameters,
			ResponseFields: responseFields(FileSchema),
			Record:         recordInfo(FileSchema),
		}
	case "add_tags", "remove_tags":
		return &api.OperationSchema{
			Description: "Change tags on several files at once",
			Parameters: []api.ParameterInfo{
				{Name: "fileIds", Type: "array", Description: "File IDs to update", Required: true},
				{Name: "tags", Type: "array", Description: "Tags to add or remove", Required: true},
			},
			ResponseFields: responseFields(BulkUpdateSchema),
			Record:         recordInfo(BulkUpdateSchema),
		}
	case "create_custom_metadata":
		return &api.OperationSchema{
			Description: "Parse a JSON object into custom metadata, dropping null and empty values",
			Parameters: []api.ParameterInfo{
				{Name: "json", Type: "string", Description: "JSON object text; absent or blank gives {}"},
			},
		}
	case "list_custom_metadata_fields":
		return &api.OperationSchema{
			Description: "List custom metadata field definitions",
			Parameters: []api.ParameterInfo{
				{Name: "includeDeleted", Type: "boolean", Description: "Include deleted fields", Default: false},
			},
		}
	default:
		return nil
	}
}

// responseFields describes the properties of s for operation metadata.
func responseFields(s *schema.ObjectSchema) []api.ResponseFieldInfo {
	return fieldInfos(s.Properties)
}

func fieldInfos(props []schema.Property) []api.ResponseFieldInfo {
	if len(props) == 0 {
		return nil
	}
	fields := make([]api.ResponseFieldInfo, 0, len(props))
	for _, p := range props {
		fields = append(fields, api.ResponseFieldInfo{
			Name:        p.Name,
			Type:        p.TypeName(),
			Description: p.Description,
			Fields:      fieldInfos(p.Fields()),
		})
	}
	return fields
}

// recordInfo describes the record type s for operation metadata.
func recordInfo(s *schema.ObjectSchema) *api.RecordInfo {
	return &api.RecordInfo{
		Identity:        s.Identity,
		IDProperty:      s.IDProperty,
		DisplayProperty: s.DisplayProperty,
		Featured:        s.Featured,
	}
}

// createCustomMetadata runs the metadata parser as an operation. An absent
// or nil json input parses as empty; any other non-string is rejected.
func (c *ImageKitIntegration) createCustomMetadata(inputs map[string]interface{}) (*operation.Result, error) {
	var raw string
	switch v := inputs["json"].(type) {
	case nil:
	case string:
		raw = v
	default:
		return nil, operation.NewValidationError(
			fmt.Sprintf("json must be a JSON object string, got %T", v), fmt.Sprint(v), nil)
	}
	md, err := CreateCustomMetadataFromJSON(raw)
	if err != nil {
		return nil, err
	}
	return &operation.Result{Response: md}, nil
}
