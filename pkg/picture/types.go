package picture

import (
	"fmt"
	"strings"
)

// Query parameters of the upload endpoint
const (
	ParamRobotName = "robotName"
	ParamFilename  = "filename"
)

// Content types accepted for the first multipart segment
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// AllowedContentTypes lists accepted upload types in the order they are reported.
var AllowedContentTypes = []string{ContentTypeJPEG, ContentTypePNG}

// Size units
const (
	Byte  = 1
	KByte = 1024 * Byte
	MByte = 1024 * KByte
)

const (
	// MaxFileSize is the upper bound for the uploaded picture payload
	MaxFileSize = 6 * MByte

	// MaxBodySize bounds how much of the request body is read
	MaxBodySize = 4 * MaxFileSize
)

// DefaultStorageAccountURL is the blob account the robots upload into
const DefaultStorageAccountURL = "https://roboticastorage.blob.core.windows.net"

// IsAllowedContentType reports whether contentType may be uploaded.
func IsAllowedContentType(contentType string) bool {
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// AllowedContentTypesList renders the allowed set as "image/jpeg, image/png".
func AllowedContentTypesList() string {
	return strings.Join(AllowedContentTypes, ", ")
}

// StorageURL builds the blob URL for a robot's picture.
// robotName and filename are interpolated as-is.
func StorageURL(accountURL, robotName, filename string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(accountURL, "/"), robotName, filename)
}
