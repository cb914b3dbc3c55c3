package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// allowedContentTypes are the image types the shop accepts
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// extensionContentTypes maps file extensions to content types, used when
// the client did not send a Content-Type part header
var extensionContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file content type and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil || fileHeader.Size == 0 {
		return &FileUploadError{
			Code:    "INVALID_FILE",
			Message: "File is empty or missing",
		}
	}

	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check content type
	contentType := DetectContentType(fileHeader)
	if !allowedContentTypes[contentType] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Unsupported file type. Use JPEG, PNG, GIF or WebP",
		}
	}

	return nil
}

// DetectContentType returns the content type of an uploaded file, falling
// back to the file extension when the part header is absent
func DetectContentType(fileHeader *multipart.FileHeader) string {
	contentType := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	return extensionContentTypes[ext]
}
