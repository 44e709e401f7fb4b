package imagekit

import (
	"context"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/schema"
)

const fileDetailsPath = "files/{fileId}/details"

// syncFiles lists every file in one request. There is no cursor: each call
// starts over from the oldest file.
func (c *ImageKitIntegration) syncFiles(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	resp, err := c.Call(ctx, api.CallOptions{
		Method:   "GET",
		Endpoint: "files",
		Payload: map[string]interface{}{
			"sort":               SortAscCreated,
			"includeFileDetails": true,
			"limit":              MaxPageSize,
		},
		CacheTTL: api.NoCache,
	})
	if err != nil {
		return nil, err
	}
	if err := ParseError(resp); err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	if err := c.ParseJSONResponse(resp, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []map[string]interface{}{}
	}

	return c.ToResult(resp, records), nil
}

// getFileDetails fetches one file and projects it onto FileSchema.
func (c *ImageKitIntegration) getFileDetails(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	fileID, err := requiredString(inputs, "fileId")
	if err != nil {
		return nil, err
	}

	endpoint, err := c.BuildURL(fileDetailsPath, map[string]interface{}{"fileId": fileID})
	if err != nil {
		return nil, err
	}

	resp, err := c.Call(ctx, api.CallOptions{
		Method:   "GET",
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}
	if err := ParseError(resp); err != nil {
		return nil, err
	}

	var record map[string]interface{}
	if err := c.ParseJSONResponse(resp, &record); err != nil {
		return nil, err
	}

	return c.ToResult(resp, schema.PruneToSchema(record, FileSchema)), nil
}

// listCustomMetadataFields returns the account's custom metadata field definitions.
func (c *ImageKitIntegration) listCustomMetadataFields(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	payload := map[string]interface{}{}
	if v, ok := inputs["includeDeleted"].(bool); ok && v {
		payload["includeDeleted"] = true
	}

	resp, err := c.Call(ctx, api.CallOptions{
		Method:   "GET",
		Endpoint: "customMetadataFields",
		Payload:  payload,
	})
	if err != nil {
		return nil, err
	}
	if err := ParseError(resp); err != nil {
		return nil, err
	}

	var fields []CustomMetadataField
	if err := c.ParseJSONResponse(resp, &fields); err != nil {
		return nil, err
	}

	return c.ToResult(resp, fields), nil
}

// requiredString returns a non-empty string input or a validation error.
func requiredString(inputs map[string]interface{}, name string) (string, error) {
	v, ok := inputs[name]
	if !ok || v == nil {
		return "", operation.NewMissingParameterError(name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", operation.NewValidationError(name+" must be a non-empty string", "", nil)
	}
	return s, nil
}
