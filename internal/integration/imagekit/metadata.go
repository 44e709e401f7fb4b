package imagekit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tombee/ikpack/internal/operation"
)

// CreateCustomMetadataFromJSON parses a JSON object of custom metadata for
// use as an operation input. Blank input and "{}" yield an empty map. Keys
// whose value is null or "" are dropped; nested values are kept as-is.
func CreateCustomMetadataFromJSON(input string) (map[string]interface{}, error) {
	obj, err := parseMetadataObject(input)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// NormalizeCustomMetadata prepares a present customMetadata input for the
// update endpoint. "" and "{}" clear all metadata. Keys whose value is ""
// become null so the field is cleared upstream rather than left untouched.
func NormalizeCustomMetadata(input string) (map[string]interface{}, error) {
	obj, err := parseMetadataObject(input)
	if err != nil {
		return nil, err
	}
	return clearEmptyValues(obj), nil
}

// clearEmptyValues returns a copy of md with top-level "" values replaced by
// null. md is not modified.
func clearEmptyValues(md map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(md))
	for k, v := range md {
		if s, ok := v.(string); ok && s == "" {
			v = nil
		}
		out[k] = v
	}
	return out
}

// parseMetadataObject decodes input as a JSON object. Blank input and "{}"
// decode to an empty map.
func parseMetadataObject(input string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == "{}" {
		return map[string]interface{}{}, nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, operation.NewValidationError(
			fmt.Sprintf("invalid custom metadata JSON: %v", err), input, err)
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, operation.NewValidationError(
			fmt.Sprintf("custom metadata must be a JSON object, got %s", jsonKind(v)), input, nil)
	}
	return obj, nil
}

// parseExtensions decodes a JSON extensions string when it is valid JSON and
// otherwise returns it unchanged.
func parseExtensions(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return s
	}
	return decoded
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
