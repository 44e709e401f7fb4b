package imagekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/ikpack/internal/schema"
)

// File represents an ImageKit media asset.
type File struct {
	FileID            string                 `json:"fileId"`
	Name              string                 `json:"name"`
	Type              string                 `json:"type,omitempty"`
	CreatedAt         string                 `json:"createdAt,omitempty"`
	UpdatedAt         string                 `json:"updatedAt,omitempty"`
	Tags              []string               `json:"tags"`
	AITags            []AITag                `json:"AITags"`
	VersionInfo       *VersionInfo           `json:"versionInfo,omitempty"`
	EmbeddedMetadata  json.RawMessage        `json:"embeddedMetadata,omitempty"`
	CustomCoordinates *Coordinates           `json:"customCoordinates"`
	CustomMetadata    map[string]interface{} `json:"customMetadata,omitempty"`
	IsPrivateFile     bool                   `json:"isPrivateFile"`
	URL               string                 `json:"url"`
	Thumbnail         string                 `json:"thumbnail,omitempty"`
	FileType          string                 `json:"fileType,omitempty"`
	FilePath          string                 `json:"filePath,omitempty"`
	Height            float64                `json:"height,omitempty"`
	Width             float64                `json:"width,omitempty"`
	Size              float64                `json:"size,omitempty"`
	HasAlpha          bool                   `json:"hasAlpha"`
	Mime              string                 `json:"mime,omitempty"`
}

// rawString renders opaque JSON as text; a JSON string is unquoted.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// AITag is a tag generated by an auto-tagging extension.
type AITag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// VersionInfo identifies a file version.
type VersionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Coordinates is the area of interest of an image: x, y, width, height.
// ImageKit transmits it as a "x,y,width,height" string; arrays are accepted too.
type Coordinates [4]float64

// String returns the wire form "x,y,width,height".
func (c Coordinates) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseCoordinates parses "x,y,width,height".
func ParseCoordinates(s string) (Coordinates, error) {
	var c Coordinates
	parts := strings.Split(s, ",")
	if len(parts) != len(c) {
		return c, fmt.Errorf("expected 4 comma-separated numbers, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return c, fmt.Errorf("coordinate %d: %w", i, err)
		}
		c[i] = v
	}
	return c, nil
}

// UnmarshalJSON accepts a "x,y,w,h" string or a 4-element number array.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		parsed, err := ParseCoordinates(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) != len(c) {
		return fmt.Errorf("expected 4 coordinates, got %d", len(arr))
	}
	copy(c[:], arr)
	return nil
}

// MarshalJSON emits the 4-number array form.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64(c))
}

// UploadResponse is the JSON body returned by the upload endpoint.
type UploadResponse struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FilePath     string `json:"filePath"`
	Size         int64  `json:"size"`
}

// BulkUpdateResult is the response of the bulk tag endpoints.
type BulkUpdateResult struct {
	SuccessfullyUpdatedFileIds []string `json:"successfullyUpdatedFileIds"`
	PartiallyUpdatedFileIds    []string `json:"partiallyUpdatedFileIds,omitempty"`
	FailedFileIds              []string `json:"failedFileIds,omitempty"`
}

// CustomMetadataField is a custom metadata field definition.
type CustomMetadataField struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Label  string                 `json:"label"`
	Schema map[string]interface{} `json:"schema"`
}

// FilesFromRecords decodes raw file records into typed Files.
func FilesFromRecords(records []map[string]interface{}) ([]File, error) {
	files := make([]File, 0, len(records))
	for i, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var f File
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		files = append(files, f)
	}
	return files, nil
}

// ProjectFile shapes a raw file record the way a sync row is stored: the
// record is pruned to FileSchema and embeddedMetadata, which is opaque, is
// flattened to its JSON text. The input record is not modified.
func ProjectFile(record map[string]interface{}) map[string]interface{} {
	row := schema.PruneToSchema(record, FileSchema)
	if v, ok := row["embeddedMetadata"]; ok && v != nil {
		if _, isString := v.(string); !isString {
			b, err := json.Marshal(v)
			if err == nil {
				row["embeddedMetadata"] = rawString(b)
			}
		}
	}
	return row
}
