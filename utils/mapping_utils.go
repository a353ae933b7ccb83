package utils

import (
	"strings"

	"github.com/disintegration/imaging"
)

// MapExtensionToFormat maps an output file extension to its image format
// Input is normalized to lowercase (and a leading dot is ignored) before mapping
func MapExtensionToFormat(ext string) (imaging.Format, bool) {
	extLower := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")

	formatMap := map[string]imaging.Format{
		"png":  imaging.PNG,
		"jpg":  imaging.JPEG,
		"jpeg": imaging.JPEG,
	}

	format, exists := formatMap[extLower]
	return format, exists
}

// MapFormatToContentType maps an image format to its MIME type
// Unknown formats map to application/octet-stream
func MapFormatToContentType(format imaging.Format) string {
	contentTypeMap := map[imaging.Format]string{
		imaging.PNG:  "image/png",
		imaging.JPEG: "image/jpeg",
	}

	if contentType, exists := contentTypeMap[format]; exists {
		return contentType
	}
	return "application/octet-stream"
}

// MapExtensionToContentType maps an output file extension to its MIME type
func MapExtensionToContentType(ext string) string {
	format, ok := MapExtensionToFormat(ext)
	if !ok {
		return "application/octet-stream"
	}
	return MapFormatToContentType(format)
}
