package imagekit

import (
	"encoding/json"

	"github.com/tombee/ikpack/internal/operation"
	"github.com/tombee/ikpack/internal/operation/transport"
)

// apiError is the error body ImageKit returns for non-2xx responses.
type apiError struct {
	Message string `json:"message"`
	Help    string `json:"help"`
}

// ParseError converts a non-2xx response into an upstream error.
// Returns nil for 2xx responses.
func ParseError(resp *transport.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var body apiError
	if len(resp.Body) > 0 {
		_ = json.Unmarshal(resp.Body, &body)
	}

	requestID, _ := resp.Metadata[transport.MetadataRequestID].(string)
	err := operation.ErrorFromHTTPStatus(resp.StatusCode, body.Message, requestID)
	if body.Help != "" {
		err.SuggestText = body.Help
	}
	return err
}
