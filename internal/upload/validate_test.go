package upload

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

func TestCheckFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected error
	}{
		{"png", "interior.png", nil},
		{"jpg", "interior.jpg", nil},
		{"jpeg upper", "INTERIOR.JPEG", nil},
		{"webp mixed", "dining.WebP", nil},
		{"multiple dots", "room.final.v2.jpg", nil},
		{"empty", "", ErrNoSelectedFile},
		{"blank", "   ", ErrNoSelectedFile},
		{"text", "photo.txt", ErrInvalidType},
		{"no extension", "photo", ErrInvalidType},
		{"trailing dot", "photo.", ErrInvalidType},
		{"gif", "photo.gif", ErrInvalidType},
		{"extension only in middle", "photo.png.exe", ErrInvalidType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckFilename(tc.filename)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v got %v", tc.expected, err)
			}
		})
	}
}

func TestCheckContent(t *testing.T) {
	if err := CheckContent(nil); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected empty file error got %v", err)
	}
	if err := CheckContent([]byte{0x1}); err != nil {
		t.Fatalf("expected nil got %v", err)
	}
}

func TestReadMultipartHeader(t *testing.T) {
	header := multipartHeader(t, "room.png", []byte("pixels"))
	data, err := Read(header)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "pixels" {
		t.Fatalf("expected pixels got %q", data)
	}

	empty := multipartHeader(t, "room.png", nil)
	if _, err := Read(empty); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected empty file error got %v", err)
	}

	bad := multipartHeader(t, "room.txt", []byte("text"))
	if _, err := Read(bad); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type got %v", err)
	}

	if _, err := Read(nil); !errors.Is(err, ErrNoFilePart) {
		t.Fatalf("expected no file part got %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(fmt.Errorf("wrapped: %w", ErrInvalidType)) {
		t.Fatal("expected wrapped validation error to match")
	}
	if IsValidation(errors.New("boom")) {
		t.Fatal("plain error should not match")
	}
}

func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file got %d", len(files))
	}
	return files[0]
}
