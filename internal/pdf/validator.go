package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Validator performs the cheap pre-open checks on candidate PDF files.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the given file size cap.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile checks that path names a plausibly readable PDF: it exists,
// is a regular non-empty file within the size cap, and starts with the
// %PDF header. The header check deliberately replaces opening the document
// with a reader library, since the inputs here are password-protected
// files most readers refuse.
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

	if err := v.ValidateFileInfo(path, fileInfo); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 5)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("cannot read file header: %w", err)
	}
	if !bytes.Equal(header, []byte("%PDF-")) {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	return nil
}

// ValidateFileInfo performs the stat-level checks without touching file
// content, for use during directory walks. Extension is not checked here;
// explicitly named files need not end in .pdf.
func (v *Validator) ValidateFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// IsPDFName reports whether a file name carries the .pdf extension. Used
// by directory scans to pick candidates.
func (v *Validator) IsPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
