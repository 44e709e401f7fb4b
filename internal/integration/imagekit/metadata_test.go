package imagekit

import (
	"errors"
	"strings"
	"testing"

	"github.com/tombee/ikpack/internal/operation"
)

func TestCreateCustomMetadataFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]interface{}
	}{
		{name: "empty string", input: "", want: map[string]interface{}{}},
		{name: "whitespace", input: "  ", want: map[string]interface{}{}},
		{name: "empty object", input: "{}", want: map[string]interface{}{}},
		{
			name:  "drops null and empty string",
			input: `{"a":"","b":null,"c":1}`,
			want:  map[string]interface{}{"c": float64(1)},
		},
		{
			name:  "keeps falsy non-empty values",
			input: `{"zero":0,"no":false,"space":" "}`,
			want:  map[string]interface{}{"zero": float64(0), "no": false, "space": " "},
		},
		{
			name:  "does not recurse",
			input: `{"nested":{"x":"","y":null},"list":["",null]}`,
			want: map[string]interface{}{
				"nested": map[string]interface{}{"x": "", "y": nil},
				"list":   []interface{}{"", nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateCustomMetadataFromJSON(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalJSON(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCreateCustomMetadataFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantInMsg string
	}{
		{name: "malformed", input: `{"a":`, wantInMsg: "invalid custom metadata JSON"},
		{name: "array", input: `[1,2]`, wantInMsg: "JSON object"},
		{name: "scalar", input: `42`, wantInMsg: "JSON object"},
		{name: "string", input: `"x"`, wantInMsg: "JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateCustomMetadataFromJSON(tt.input)
			assertValidationError(t, err, tt.input, tt.wantInMsg)
		})
	}
}

func TestNormalizeCustomMetadata(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]interface{}
	}{
		{name: "empty string clears", input: "", want: map[string]interface{}{}},
		{name: "empty object clears", input: "{}", want: map[string]interface{}{}},
		{name: "empty value becomes null", input: `{"a":""}`, want: map[string]interface{}{"a": nil}},
		{name: "null kept", input: `{"a":null,"b":2}`, want: map[string]interface{}{"a": nil, "b": float64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCustomMetadata(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalJSON(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCustomMetadata_Malformed(t *testing.T) {
	_, err := NormalizeCustomMetadata(`{not json}`)
	assertValidationError(t, err, `{not json}`, "invalid custom metadata JSON")
}

func TestBuildUpdatePayload(t *testing.T) {
	t.Run("absent metadata omitted", func(t *testing.T) {
		got, err := BuildUpdatePayload(map[string]interface{}{"fileId": "f1", "tags": []string{"a"}})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got["customMetadata"]; ok {
			t.Error("customMetadata should be omitted")
		}
		if _, ok := got["fileId"]; ok {
			t.Error("fileId should not be in the body")
		}
		if _, ok := got["webhookUrl"]; ok {
			t.Error("webhookUrl should be omitted")
		}
	})

	t.Run("empty metadata clears", func(t *testing.T) {
		got, err := BuildUpdatePayload(map[string]interface{}{"customMetadata": ""})
		if err != nil {
			t.Fatal(err)
		}
		md, ok := got["customMetadata"].(map[string]interface{})
		if !ok || len(md) != 0 {
			t.Errorf("customMetadata = %#v, want empty map", got["customMetadata"])
		}
	})

	t.Run("extensions parsed when JSON", func(t *testing.T) {
		got, err := BuildUpdatePayload(map[string]interface{}{"extensions": `[{"name":"google-auto-tagging"}]`})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got["extensions"].([]interface{}); !ok {
			t.Errorf("extensions = %#v, want decoded array", got["extensions"])
		}
	})

	t.Run("extensions passed through when not JSON", func(t *testing.T) {
		got, err := BuildUpdatePayload(map[string]interface{}{"extensions": "remove-bg"})
		if err != nil {
			t.Fatal(err)
		}
		if got["extensions"] != "remove-bg" {
			t.Errorf("extensions = %#v", got["extensions"])
		}
	})

	t.Run("object metadata has empty values cleared", func(t *testing.T) {
		input := map[string]interface{}{"a": "", "b": "x", "c": nil}
		got, err := BuildUpdatePayload(map[string]interface{}{"customMetadata": input})
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]interface{}{"a": nil, "b": "x", "c": nil}
		if !equalJSON(got["customMetadata"], want) {
			t.Errorf("customMetadata = %#v, want %#v", got["customMetadata"], want)
		}
		if input["a"] != "" {
			t.Error("input map must not be modified")
		}
	})

	t.Run("string and object forms agree", func(t *testing.T) {
		fromString, err := BuildUpdatePayload(map[string]interface{}{"customMetadata": `{"a":"","n":1}`})
		if err != nil {
			t.Fatal(err)
		}
		fromObject, err := BuildUpdatePayload(map[string]interface{}{"customMetadata": map[string]interface{}{"a": "", "n": float64(1)}})
		if err != nil {
			t.Fatal(err)
		}
		if !equalJSON(fromString, fromObject) {
			t.Errorf("string form %#v differs from object form %#v", fromString, fromObject)
		}
	})

	t.Run("bad metadata rejected", func(t *testing.T) {
		_, err := BuildUpdatePayload(map[string]interface{}{"customMetadata": "[1]"})
		assertValidationError(t, err, "[1]", "JSON object")
	})
}

func assertValidationError(t *testing.T, err error, input, wantInMsg string) {
	t.Helper()
	var opErr *operation.Error
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *operation.Error, got %T (%v)", err, err)
	}
	if opErr.Type != operation.ErrorTypeValidation {
		t.Errorf("Type = %s, want %s", opErr.Type, operation.ErrorTypeValidation)
	}
	if opErr.Input != input {
		t.Errorf("Input = %q, want %q", opErr.Input, input)
	}
	if !strings.Contains(opErr.Message, wantInMsg) {
		t.Errorf("Message = %q, want it to contain %q", opErr.Message, wantInMsg)
	}
}
