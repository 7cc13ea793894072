package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tempDir := t.TempDir()
	emptyPDFPath := filepath.Join(tempDir, "empty.pdf")
	if err := os.WriteFile(emptyPDFPath, []byte{}, 0o644); err != nil {
		t.Fatalf("failed to create empty PDF: %v", err)
	}
	largePDFPath := filepath.Join(tempDir, "large.pdf")
	if err := os.WriteFile(largePDFPath, make([]byte, 2*1024*1024), 0o644); err != nil {
		t.Fatalf("failed to create large PDF: %v", err)
	}
	nonPDFPath := filepath.Join(tempDir, "document.txt")
	if err := os.WriteFile(nonPDFPath, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to create non-PDF: %v", err)
	}
	fakePDFPath := filepath.Join(tempDir, "fake.pdf")
	if err := os.WriteFile(fakePDFPath, []byte("This is not a PDF file"), 0o644); err != nil {
		t.Fatalf("failed to create fake PDF: %v", err)
	}

	tests := []struct {
		name        string
		path        string
		messagePart string
	}{
		{
			name:        "empty path",
			path:        "",
			messagePart: "path cannot be empty",
		},
		{
			name:        "non-existent file",
			path:        "/non/existent/file.pdf",
			messagePart: "does not exist",
		},
		{
			name:        "directory instead of file",
			path:        tempDir,
			messagePart: "path is a directory",
		},
		{
			name:        "non-PDF extension",
			path:        nonPDFPath,
			messagePart: "not a PDF",
		},
		{
			name:        "empty file",
			path:        emptyPDFPath,
			messagePart: "file is empty",
		},
		{
			name:        "file too large",
			path:        largePDFPath,
			messagePart: "file too large",
		},
		{
			name: "PDF extension without PDF content",
			path: fakePDFPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateFile(tt.path)

			if err == nil {
				t.Fatalf("expected validation error")
			}
			if tt.messagePart != "" && !strings.Contains(err.Error(), tt.messagePart) {
				t.Errorf("expected error containing %q but got %q", tt.messagePart, err.Error())
			}
		})
	}
}

func TestNewValidator(t *testing.T) {
	maxFileSize := int64(2 * 1024 * 1024) // 2MB
	validator := NewValidator(maxFileSize)

	if validator == nil {
		t.Fatal("NewValidator returned nil")
	}
	if validator.maxFileSize != maxFileSize {
		t.Errorf("expected maxFileSize=%d but got %d", maxFileSize, validator.maxFileSize)
	}
}
