package operation

import (
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/tombee/ikpack/pkg/errors"
)

func TestError_ImplementsUserVisibleError(t *testing.T) {
	var _ pkgerrors.UserVisibleError = (*Error)(nil)
}

func TestNewValidationError_EchoesInput(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewValidationError("invalid custom metadata JSON", `{"a":`, cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("Type = %s, want %s", err.Type, ErrorTypeValidation)
	}
	if !strings.Contains(err.Error(), `{\"a\":`) {
		t.Errorf("Error() = %q, want it to contain the input", err.Error())
	}
	if !strings.Contains(err.UserMessage(), `{\"a\":`) {
		t.Errorf("UserMessage() = %q, want it to contain the input", err.UserMessage())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestErrorFromHTTPStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		wantMessage string
		wantSuggest bool
	}{
		{name: "service message", status: 400, message: "Your request contains invalid fileId", wantMessage: "Your request contains invalid fileId"},
		{name: "status text fallback", status: 404, wantMessage: "404 Not Found", wantSuggest: true},
		{name: "auth", status: 401, wantMessage: "401 Unauthorized", wantSuggest: true},
		{name: "server", status: 503, wantMessage: "503 Service Unavailable", wantSuggest: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ErrorFromHTTPStatus(tt.status, tt.message, "req-1")
			if err.Type != ErrorTypeUpstream {
				t.Errorf("Type = %s, want %s", err.Type, ErrorTypeUpstream)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if tt.wantSuggest && err.Suggestion() == "" {
				t.Error("expected a suggestion")
			}
		})
	}
}
