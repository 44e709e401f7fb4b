package imagekit

import "github.com/tombee/ikpack/internal/schema"

// FileSchema is the projection applied to file records returned to callers.
var FileSchema = &schema.ObjectSchema{
	Identity:        "File",
	IDProperty:      "fileId",
	DisplayProperty: "name",
	Featured:        []string{"fileId", "name", "tags", "customCoordinates", "thumbnail", "height", "width"},
	Properties: []schema.Property{
		{Name: "type", Type: schema.TypeString},
		{Name: "name", Type: schema.TypeString},
		{Name: "createdAt", Type: schema.TypeString},
		{Name: "updatedAt", Type: schema.TypeString},
		{Name: "fileId", FromKey: "fileId", Type: schema.TypeString},
		{Name: "tags", Type: schema.TypeArray, Items: &schema.Property{Type: schema.TypeString}},
		{Name: "AITags", Type: schema.TypeArray, Items: &schema.Property{
			Type: schema.TypeObject,
			Properties: []schema.Property{
				{Name: "name", Type: schema.TypeString},
				{Name: "confidence", Type: schema.TypeNumber},
				{Name: "source", Type: schema.TypeString},
			},
		}},
		{Name: "versionInfo", Type: schema.TypeObject, Properties: []schema.Property{
			{Name: "id", Type: schema.TypeString},
			{Name: "name", Type: schema.TypeString},
		}},
		{Name: "embeddedMetadata", Type: schema.TypeString},
		{Name: "customCoordinates", Type: schema.TypeArray, Items: &schema.Property{Type: schema.TypeNumber}},
		{Name: "customMetadata", Type: schema.TypeObject, IncludeUnknown: true},
		{Name: "isPrivateFile", Type: schema.TypeBoolean},
		{Name: "url", Type: schema.TypeString},
		{Name: "thumbnail", Type: schema.TypeString},
		{Name: "fileType", Type: schema.TypeString},
		{Name: "filePath", Type: schema.TypeString},
		{Name: "height", Type: schema.TypeNumber},
		{Name: "width", Type: schema.TypeNumber},
		{Name: "size", Type: schema.TypeNumber},
		{Name: "hasAlpha", Type: schema.TypeBoolean},
		{Name: "mime", Type: schema.TypeString},
	},
}

// BulkUpdateSchema describes the bulk tag update response.
var BulkUpdateSchema = &schema.ObjectSchema{
	Identity:        "BulkUpdateStatus",
	DisplayProperty: "successfullyUpdatedFileIds",
	Properties: []schema.Property{
		{Name: "successfullyUpdatedFileIds", Type: schema.TypeArray, Items: &schema.Property{Type: schema.TypeString},
			Description: "File IDs that were successfully updated"},
		{Name: "partiallyUpdatedFileIds", Type: schema.TypeArray, Items: &schema.Property{Type: schema.TypeString},
			Description: "File IDs that were partially updated"},
		{Name: "failedFileIds", Type: schema.TypeArray, Items: &schema.Property{Type: schema.TypeString},
			Description: "File IDs that failed to update"},
	},
}
