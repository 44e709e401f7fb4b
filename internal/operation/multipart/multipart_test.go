package multipart

import (
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ZeroValuesArePresent(t *testing.T) {
	fields := []Field{
		{Name: "fileName", Value: "a.png"},
		{Name: "useUniqueFileName", Value: false},
		{Name: "folder", Value: ""},
		{Name: "size", Value: 0},
		{Name: "tags", Value: nil},
	}

	got, err := Encode(fields, "b")
	require.NoError(t, err)

	want := "--b\r\n" +
		"Content-Disposition: form-data; name=\"fileName\"\r\n\r\na.png\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"useUniqueFileName\"\r\n\r\nfalse\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"folder\"\r\n\r\n\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"size\"\r\n\r\n0\r\n" +
		"--b--\r\n"
	assert.Equal(t, want, got)
}

func TestEncode_ImageRenamedToFile(t *testing.T) {
	got, err := Encode([]Field{
		{Name: "image", Value: "https://example.com/cat.jpg"},
		{Name: "imageName", Value: "x"},
	}, DefaultBoundary)
	require.NoError(t, err)

	assert.Contains(t, got, `name="file"`)
	assert.Contains(t, got, `name="imageName"`)
	assert.NotContains(t, got, `name="image"`)
}

func TestEncode_PreservesOrder(t *testing.T) {
	got, err := Encode([]Field{
		{Name: "z", Value: "1"},
		{Name: "a", Value: "2"},
	}, "b")
	require.NoError(t, err)
	assert.Less(t, strings.Index(got, `name="z"`), strings.Index(got, `name="a"`))
}

func TestEncode_Empty(t *testing.T) {
	got, err := Encode(nil, "b")
	require.NoError(t, err)
	assert.Equal(t, "--b--\r\n", got)
}

func TestEncode_ValueFormatting(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "string list", value: []string{"a", "b"}, want: "a,b"},
		{name: "interface list", value: []interface{}{"a", 2.0, true}, want: "a,2,true"},
		{name: "coordinates", value: []float64{10, 20, 100.5, 50}, want: "10,20,100.5,50"},
		{name: "object", value: map[string]interface{}{"k": "v"}, want: `{"k":"v"}`},
		{name: "list of objects", value: []interface{}{map[string]interface{}{"name": "x"}}, want: `[{"name":"x"}]`},
		{name: "float", value: 0.5, want: "0.5"},
		{name: "true", value: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_ParsesWithStdlibReader(t *testing.T) {
	body, err := Encode([]Field{
		{Name: "image", Value: "data"},
		{Name: "fileName", Value: "a.png"},
		{Name: "isPrivateFile", Value: false},
	}, DefaultBoundary)
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(ContentType(DefaultBoundary))
	require.NoError(t, err)
	require.Equal(t, DefaultBoundary, params["boundary"])

	r := stdmultipart.NewReader(strings.NewReader(body), params["boundary"])
	got := map[string]string{}
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, _ := io.ReadAll(part)
		got[part.FormName()] = string(b)
	}

	assert.Equal(t, map[string]string{"file": "data", "fileName": "a.png", "isPrivateFile": "false"}, got)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "multipart/form-data; boundary=xyz", ContentType("xyz"))
}
