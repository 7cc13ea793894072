package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validator gates PDF files before extraction.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified size constraint.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile runs every validation check against the file and returns the
// first failing check as an error.
func (v *Validator) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	f, _, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	f.Close()

	// Structural validation catches cross-reference corruption the text
	// reader tolerates silently.
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("PDF structure validation failed: %w", err)
	}

	return nil
}
