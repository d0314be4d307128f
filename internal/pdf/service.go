package pdf

import (
	"fmt"
	"os"

	"github.com/hashrelay/pdf2hash/internal/pdf/security"
	"github.com/hashrelay/pdf2hash/internal/pdf/wrapper"
)

// Service orchestrates validation, parsing, extraction and formatting for
// the CLI and the MCP server.
type Service struct {
	maxFileSize int64
	validator   *Validator
	search      *Search
}

// NewService creates a PDF hash extraction service.
func NewService(maxFileSize int64) *Service {
	validator := NewValidator(maxFileSize)
	return &Service{
		maxFileSize: maxFileSize,
		validator:   validator,
		search:      NewSearch(validator),
	}
}

// ExtractFile produces the hash line for one PDF. Failures identify the
// file and the failing step; they never affect other files in a batch.
func (s *Service) ExtractFile(req ExtractFileRequest) (*ExtractFileResult, error) {
	record, size, err := s.extractRecord(req.Path)
	if err != nil {
		return nil, err
	}

	return &ExtractFileResult{
		Path: req.Path,
		Hash: record.HashString(),
		Size: size,
	}, nil
}

// ExtractBatch processes paths sequentially in the given order. A failure
// on one document is recorded in its slot and processing continues.
func (s *Service) ExtractBatch(paths []string) []BatchResult {
	results := make([]BatchResult, 0, len(paths))
	for _, path := range paths {
		res := BatchResult{Path: path}
		out, err := s.ExtractFile(ExtractFileRequest{Path: path})
		if err != nil {
			res.Err = err
		} else {
			res.Hash = out.Hash
		}
		results = append(results, res)
	}
	return results
}

// EncryptionInfo summarizes the security handler parameters of an
// encrypted PDF, including the decoded permission bitmask.
func (s *Service) EncryptionInfo(req EncryptionInfoRequest) (*EncryptionInfoResult, error) {
	record, _, err := s.extractRecord(req.Path)
	if err != nil {
		return nil, err
	}

	perms := security.NewPermissions(int32(record.Permissions))

	return &EncryptionInfoResult{
		Path:              req.Path,
		Algorithm:         record.Algorithm,
		Revision:          record.Revision,
		KeyLengthBits:     record.KeyLength,
		Permissions:       record.Permissions,
		EncryptMetadata:   record.EncryptMetadata,
		HasEncryptionSeed: record.OwnerSeed != nil || record.UserSeed != nil,
		AllowedOperations: perms.AllowedOperations(),
		DeniedOperations:  perms.DeniedOperations(),
	}, nil
}

// ScanDirectory finds PDFs under a directory and batch-extracts them.
func (s *Service) ScanDirectory(req ScanDirectoryRequest) (*ScanDirectoryResult, error) {
	files, err := s.search.FindPDFs(req.Directory, req.Query)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	results := s.ExtractBatch(paths)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	return &ScanDirectoryResult{
		Directory:  req.Directory,
		Files:      files,
		Results:    results,
		TotalCount: len(files),
		Failed:     failed,
	}, nil
}

// FindPDFs lists PDF candidates under a directory without extracting.
func (s *Service) FindPDFs(directory, query string) ([]FileInfo, error) {
	return s.search.FindPDFs(directory, query)
}

func (s *Service) extractRecord(path string) (*security.EncryptionRecord, int64, error) {
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := wrapper.Open(data)
	if err != nil {
		return nil, 0, err
	}

	record, err := security.Extract(doc)
	if err != nil {
		return nil, 0, err
	}

	return record, int64(len(data)), nil
}
