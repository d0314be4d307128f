package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Search discovers PDF files on disk for batch extraction.
type Search struct {
	validator *Validator
}

// NewSearch creates a search handler sharing the given validator's
// constraints.
func NewSearch(validator *Validator) *Search {
	return &Search{validator: validator}
}

// FindPDFs walks directory and returns every .pdf file that passes the
// stat-level checks, optionally filtered by a case-insensitive substring
// query on the file name. Files that cannot be read or validated are
// skipped, not fatal; the walk order is the filesystem's lexical order, so
// results are deterministic for a given tree.
func (s *Search) FindPDFs(directory, query string) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))

	var pdfFiles []FileInfo
	err = filepath.Walk(absDirectory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // keep walking past unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		if !s.validator.IsPDFName(info.Name()) {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // skip invalid files, keep walking
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}

		pdfFiles = append(pdfFiles, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return pdfFiles, nil
}
