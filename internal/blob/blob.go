// Package blob keeps the raw bytes of uploaded documents. Upload records in
// the key-value store reference them by key.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Bucket is the OxiDB bucket uploaded files are written to.
const Bucket = "portal_files"

var ErrNotFound = errors.New("blob not found")

// Store persists uploaded bytes.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	// Delete removes key; a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh blob key that keeps the original file name readable.
func NewKey(fileName string) string {
	return fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(fileName))
}

// DetectContentType guesses a MIME type from the file extension.
func DetectContentType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	types := map[string]string{
		".pdf":  "application/pdf",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xls":  "application/vnd.ms-excel",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".zip":  "application/zip",
		".rar":  "application/vnd.rar",
		".txt":  "text/plain",
	}
	if ct, ok := types[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
