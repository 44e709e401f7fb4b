// Package multipart encodes ordered form fields as a multipart/form-data body.
//
// The encoder is textual: every value is written as its string
// form, there are no per-part content types, and parts appear in the order
// given. A field whose value is nil is absent and produces no part; zero
// values such as 0, false and "" are present and are emitted.
package multipart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultBoundary is the process-wide boundary token used for uploads.
// Values are assumed not to contain it.
const DefaultBoundary = "--------------------------727386185025104152380555"

// Field is a single named form value. A nil Value marks the field absent.
type Field struct {
	Name  string
	Value interface{}
}

// wireNames renames fields whose upstream name differs from the input name.
var wireNames = map[string]string{
	"image": "file",
}

// ContentType returns the Content-Type header value for boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// Encode writes fields as a multipart body delimited by boundary.
func Encode(fields []Field, boundary string) (string, error) {
	var b strings.Builder

	for _, f := range fields {
		if f.Value == nil {
			continue
		}

		value, err := formatValue(f.Value)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", f.Name, err)
		}

		name := f.Name
		if wire, ok := wireNames[name]; ok {
			name = wire
		}

		b.WriteString("--")
		b.WriteString(boundary)
		b.WriteString("\r\n")
		b.WriteString(`Content-Disposition: form-data; name="`)
		b.WriteString(name)
		b.WriteString("\"\r\n\r\n")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	b.WriteString("--")
	b.WriteString(boundary)
	b.WriteString("--\r\n")

	return b.String(), nil
}

// formatValue renders a value the way a form field carries it. Scalars use
// their natural string form, lists of scalars are comma-joined (tags,
// coordinates, responseFields) and anything else is JSON encoded.
func formatValue(v interface{}) (string, error) {
	if s, ok := formatScalar(v); ok {
		return s, nil
	}

	switch t := v.(type) {
	case []string:
		return strings.Join(t, ","), nil
	case []float64:
		parts := make([]string, len(t))
		for i, f := range t {
			parts[i], _ = formatScalar(f)
		}
		return strings.Join(parts, ","), nil
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := formatScalar(item)
			if !ok {
				return marshalValue(t)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	}

	return marshalValue(v)
}

func formatScalar(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

func marshalValue(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
