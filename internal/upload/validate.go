package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// ValidationError describes an upload the caller can correct.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNoFilePart     = &ValidationError{Message: "No file part"}
	ErrNoSelectedFile = &ValidationError{Message: "No selected file"}
	ErrInvalidType    = &ValidationError{Message: "Invalid file type"}
	ErrEmptyFile      = &ValidationError{Message: "Empty file uploaded"}
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// CheckFilename accepts names whose suffix is an allowed image extension.
// The check is suffix-only and trivially spoofable.
func CheckFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoSelectedFile
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ErrInvalidType
	}
	ext := strings.ToLower(name[idx+1:])
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrInvalidType
	}
	return nil
}

// CheckContent rejects zero-byte uploads.
func CheckContent(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	return nil
}

// Read validates the header's filename and returns the file contents.
func Read(header *multipart.FileHeader) ([]byte, error) {
	if header == nil {
		return nil, ErrNoFilePart
	}
	if err := CheckFilename(header.Filename); err != nil {
		return nil, err
	}
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := CheckContent(data); err != nil {
		return nil, err
	}
	return data, nil
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
