package pdf

// FileInfo describes a PDF file found during a directory scan.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request types

// ExtractFileRequest asks for the hash line of a single PDF file.
type ExtractFileRequest struct {
	Path string `json:"path"`
}

// EncryptionInfoRequest asks for a summary of a PDF's encryption settings.
type EncryptionInfoRequest struct {
	Path string `json:"path"`
}

// ScanDirectoryRequest asks for hash extraction over every PDF in a
// directory tree.
type ScanDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response types

// ExtractFileResult is the outcome of a successful extraction.
type ExtractFileResult struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// BatchResult is the per-file outcome of a batch extraction. Exactly one
// of Hash and Err is meaningful.
type BatchResult struct {
	Path string `json:"path"`
	Hash string `json:"hash,omitempty"`
	Err  error  `json:"-"`
}

// EncryptionInfoResult summarizes the security handler parameters of an
// encrypted PDF.
type EncryptionInfoResult struct {
	Path              string   `json:"path"`
	Algorithm         int64    `json:"algorithm"`
	Revision          int64    `json:"revision"`
	KeyLengthBits     int64    `json:"key_length_bits"`
	Permissions       int64    `json:"permissions"`
	EncryptMetadata   bool     `json:"encrypt_metadata"`
	HasEncryptionSeed bool     `json:"has_encryption_seed"`
	AllowedOperations []string `json:"allowed_operations"`
	DeniedOperations  []string `json:"denied_operations"`
}

// ScanDirectoryResult reports a directory batch run.
type ScanDirectoryResult struct {
	Directory  string        `json:"directory"`
	Files      []FileInfo    `json:"files"`
	Results    []BatchResult `json:"results"`
	TotalCount int           `json:"total_count"`
	Failed     int           `json:"failed"`
}
