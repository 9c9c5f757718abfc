package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ValidationKind identifies which file check failed.
type ValidationKind string

const (
	EmptyFile       ValidationKind = "empty-file"
	FileTooLarge    ValidationKind = "file-too-large"
	UnsupportedType ValidationKind = "unsupported-type"
	UnsafeName      ValidationKind = "unsafe-name"
	NameTooLong     ValidationKind = "name-too-long"
)

// MaxNameLength is the longest accepted file name, in characters.
const MaxNameLength = 255

type ValidationError struct {
	Kind ValidationKind
	File string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.File == "" {
		return e.Msg
	}
	return fmt.Sprintf("File %s: %s", e.File, e.Msg)
}

// UploadPath is the entry point an upload arrives through. Each has its own
// size cap.
type UploadPath string

const (
	PathChecklist UploadPath = "checklist"
	PathDropZone  UploadPath = "dropzone"
	PathCategory  UploadPath = "category"
)

func (p UploadPath) MaxSize() int64 {
	switch p {
	case PathCategory:
		return 50 << 20
	default:
		return 10 << 20
	}
}

func (p UploadPath) sizeMessage() string {
	if p == PathCategory {
		return "File is too large. Maximum size is 50MB."
	}
	return "File size must be less than 10MB"
}

// FileMeta describes an incoming file. Data may be nil when only metadata
// is checked.
type FileMeta struct {
	Name         string
	Size         int64
	Type         string
	LastModified int64
	Data         []byte
}

var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg":               true,
	"image/jpg":                true,
	"image/png":                true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
	"application/x-zip-compressed": true,
}

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".jpg": true, ".jpeg": true,
	".png": true, ".xls": true, ".xlsx": true, ".zip": true, ".rar": true,
}

// ValidateFile applies the upload policy for path. Checks run in order and
// the first failure is returned.
func ValidateFile(f *FileMeta, path UploadPath) error {
	if f == nil || f.Name == "" {
		return &ValidationError{Kind: EmptyFile, Msg: "No file selected or invalid file"}
	}
	if f.Size == 0 {
		return &ValidationError{Kind: EmptyFile, File: f.Name, Msg: "File is empty. Please select a valid file."}
	}
	if f.Size > path.MaxSize() {
		return &ValidationError{Kind: FileTooLarge, File: f.Name, Msg: path.sizeMessage()}
	}
	if !allowedTypes[baseMIME(f.Type)] {
		if !allowedExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			return &ValidationError{
				Kind: UnsupportedType,
				File: f.Name,
				Msg:  "File type not supported. Please upload PDF, DOC, DOCX, JPG, PNG, XLS, XLSX, ZIP, or RAR files.",
			}
		}
	}
	if strings.Contains(f.Name, "..") || strings.ContainsAny(f.Name, `/\`) {
		return &ValidationError{Kind: UnsafeName, File: f.Name, Msg: "Invalid file name. Please rename the file and try again."}
	}
	if utf8.RuneCountInString(norm.NFC.String(f.Name)) > MaxNameLength {
		return &ValidationError{Kind: NameTooLong, File: f.Name, Msg: "File name is too long. Please rename the file."}
	}
	return nil
}

func baseMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
