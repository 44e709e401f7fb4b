package imagekit

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/api"
	"github.com/tombee/ikpack/internal/schema"
)

var updateParameters = []api.ParameterInfo{
	{Name: "fileId", Type: "string", Description: "The unique ID of the file to update", Required: true},
	{Name: "tags", Type: "array", Description: "Tags to set on the file"},
	{Name: "customCoordinates", Type: "string", Description: "Area of interest as x,y,width,height"},
	{Name: "customMetadata", Type: "string", Description: "JSON object; empty string or {} clears all metadata"},
	{Name: "extensions", Type: "string", Description: "JSON array of extensions to apply"},
	{Name: "webhookUrl", Type: "string", Description: "URL notified when extensions finish"},
	{Name: "method", Type: "string", Description: "PUT or PATCH", Default: "PUT"},
}

// passthroughUpdateFields are copied into the update body as received.
var passthroughUpdateFields = []string{"tags", "customCoordinates", "webhookUrl"}

// BuildUpdatePayload builds the update-details body. Absent inputs are
// omitted rather than sent as null so they are left untouched upstream.
// customMetadata may be a JSON string or a decoded object; both forms have
// "" values cleared to null.
// fileId is addressed by the path and is not part of the body.
func BuildUpdatePayload(inputs map[string]interface{}) (map[string]interface{}, error) {
	payload := map[string]interface{}{}

	for _, name := range passthroughUpdateFields {
		if v, ok := inputs[name]; ok && v != nil {
			payload[name] = v
		}
	}

	if v, ok := inputs["extensions"]; ok && v != nil {
		payload["extensions"] = parseExtensions(v)
	}

	if v, ok := inputs["customMetadata"]; ok && v != nil {
		switch md := v.(type) {
		case string:
			normalized, err := NormalizeCustomMetadata(md)
			if err != nil {
				return nil, err
			}
			payload["customMetadata"] = normalized
		case map[string]interface{}:
			payload["customMetadata"] = clearEmptyValues(md)
		default:
			return nil, operation.NewValidationError(
				fmt.Sprintf("customMetadata must be a JSON string or object, got %T", v), fmt.Sprint(v), nil)
		}
	}

	return payload, nil
}

// updateFileDetails updates one file and returns the projected record.
func (c *ImageKitIntegration) updateFileDetails(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	fileID, err := requiredString(inputs, "fileId")
	if err != nil {
		return nil, err
	}

	method := http.MethodPut
	if m, ok := inputs["method"].(string); ok && m != "" {
		method = strings.ToUpper(m)
		if method != http.MethodPut && method != http.MethodPatch {
			return nil, operation.NewValidationError("update method must be PUT or PATCH", m, nil)
		}
	}

	payload, err := BuildUpdatePayload(inputs)
	if err != nil {
		return nil, err
	}

	endpoint, err := c.BuildURL(fileDetailsPath, map[string]interface{}{"fileId": fileID})
	if err != nil {
		return nil, err
	}

	resp, err := c.Call(ctx, api.CallOptions{
		Method:   method,
		Endpoint: endpoint,
		Payload:  payload,
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

// bulkTags adds or removes tags on several files.
func (c *ImageKitIntegration) bulkTags(ctx context.Context, endpoint string, inputs map[string]interface{}) (*operation.Result, error) {
	fileIDs, err := stringList(inputs, "fileIds")
	if err != nil {
		return nil, err
	}
	tags, err := stringList(inputs, "tags")
	if err != nil {
		return nil, err
	}

	resp, err := c.Call(ctx, api.CallOptions{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Payload: map[string]interface{}{
			"fileIds": fileIDs,
			"tags":    tags,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := ParseError(resp); err != nil {
		return nil, err
	}

	var result BulkUpdateResult
	if err := c.ParseJSONResponse(resp, &result); err != nil {
		return nil, err
	}

	return c.ToResult(resp, result), nil
}

// stringList reads a required list input given as []string, []interface{}
// of strings, or a comma-separated string.
func stringList(inputs map[string]interface{}, name string) ([]string, error) {
	v, ok := inputs[name]
	if !ok || v == nil {
		return nil, operation.NewMissingParameterError(name)
	}

	var out []string
	switch t := v.(type) {
	case []string:
		out = t
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, operation.NewValidationError(name+" must contain only strings", fmt.Sprint(v), nil)
			}
			out = append(out, s)
		}
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		return nil, operation.NewValidationError(name+" must be a list of strings", fmt.Sprint(v), nil)
	}

	if len(out) == 0 {
		return nil, operation.NewValidationError(name+" must not be empty", fmt.Sprint(v), nil)
	}
	return out, nil
}
