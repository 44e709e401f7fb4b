package imagekit

import (
	"context"
	"fmt"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/operation/multipart"
)

// uploadParameters lists upload inputs in the order they are sent.
var uploadParameters = []api.ParameterInfo{
	{Name: "image", Type: "string", Description: "Image URL or base64-encoded file content", Required: true},
	{Name: "fileName", Type: "string", Description: "Name to store the file under", Required: true},
	{Name: "useUniqueFileName", Type: "boolean", Description: "Add a unique suffix to the file name", Default: true},
	{Name: "tags", Type: "string", Description: "Comma-separated tags"},
	{Name: "folder", Type: "string", Description: "Destination folder path", Default: "/"},
	{Name: "isPrivateFile", Type: "boolean", Description: "Mark the file as private", Default: false},
	{Name: "isPublished", Type: "boolean", Description: "Upload the file as published", Default: true},
	{Name: "customCoordinates", Type: "string", Description: "Area of interest as x,y,width,height"},
	{Name: "responseFields", Type: "string", Description: "Comma-separated fields to include in the response"},
	{Name: "extensions", Type: "string", Description: "JSON array of extensions to apply"},
	{Name: "webhookUrl", Type: "string", Description: "URL notified when extensions finish"},
	{Name: "overwriteFile", Type: "boolean", Description: "Replace an existing file at the same path", Default: true},
	{Name: "overwriteAITags", Type: "boolean", Description: "Drop AITags of a replaced file", Default: true},
	{Name: "overwriteTags", Type: "boolean", Description: "Drop tags of a replaced file when none are given", Default: true},
	{Name: "overwriteCustomMetadata", Type: "boolean", Description: "Drop custom metadata of a replaced file when none is given", Default: true},
	{Name: "customMetadata", Type: "string", Description: "JSON object of custom metadata"},
	{Name: "transformation", Type: "string", Description: "JSON object of pre and post transformations"},
}

// UploadFields returns the upload inputs as ordered multipart fields.
// Inputs that are not upload parameters are ignored; absent ones stay nil.
func UploadFields(inputs map[string]interface{}) []multipart.Field {
	fields := make([]multipart.Field, 0, len(uploadParameters))
	for _, p := range uploadParameters {
		fields = append(fields, multipart.Field{Name: p.Name, Value: inputs[p.Name]})
	}
	return fields
}

// uploadFile sends a multipart upload and returns the URL of the new file.
func (c *ImageKitIntegration) uploadFile(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if _, err := requiredString(inputs, "image"); err != nil {
		return nil, err
	}
	if _, err := requiredString(inputs, "fileName"); err != nil {
		return nil, err
	}

	body, err := multipart.Encode(UploadFields(inputs), c.boundary)
	if err != nil {
		return nil, operation.NewValidationError(fmt.Sprintf("cannot encode upload: %v", err), "", err)
	}

	resp, err := c.Call(ctx, api.CallOptions{
		Method:      "POST",
		Endpoint:    c.uploadURL,
		Payload:     body,
		ContentType: multipart.ContentType(c.boundary),
	})
	if err != nil {
		return nil, err
	}
	if err := ParseError(resp); err != nil {
		return nil, err
	}

	var uploaded UploadResponse
	if err := c.ParseJSONResponse(resp, &uploaded); err != nil {
		return nil, err
	}
	if uploaded.URL == "" {
		return nil, operation.NewUpstreamError("upload response is missing url", resp.StatusCode)
	}

	result := c.ToResult(resp, uploaded.URL)
	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}
	result.Metadata["fileId"] = uploaded.FileID
	result.Metadata["name"] = uploaded.Name
	return result, nil
}
