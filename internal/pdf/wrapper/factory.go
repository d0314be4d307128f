package wrapper

import (
	"bytes"
	"fmt"
	"os"
)

// Open parses the given PDF bytes with the first backend able to handle
// them: pdfcpu for anything it accepts, falling back to the raw scanner
// when pdfcpu refuses the file or its read lost the encryption state.
// Bytes without a %PDF header never reach a backend and fail as a parse
// error.
func Open(data []byte) (Document, error) {
	if !bytes.HasPrefix(data, pdfHeader) {
		return nil, &WrapperError{
			Library: LibraryRawScan,
			Op:      "open",
			Err:     fmt.Errorf("not a PDF file (missing %%PDF header)"),
		}
	}

	doc, err := OpenPDFCPU(bytes.NewReader(data))
	if err != nil {
		return OpenRawScan(data)
	}

	// pdfcpu's relaxed mode repairs damaged cross-reference tables, and a
	// repaired read can come back without the /Encrypt entry or the
	// trailer /ID even though the bytes carry both. A not-encrypted
	// verdict therefore only stands when the raw scanner agrees.
	if raw, rawErr := OpenRawScan(data); rawErr == nil && preferRawScan(doc, raw) {
		return raw, nil
	}

	return doc, nil
}

// preferRawScan reports whether the raw scanner sees encryption state that
// the structured read missed.
func preferRawScan(doc, raw Document) bool {
	if _, err := raw.EncryptionDict(); err != nil {
		return false
	}
	if _, err := doc.EncryptionDict(); err != nil {
		return true
	}
	if _, err := doc.Trailer().ArrayBytes("ID", 0); err != nil {
		_, rawIDErr := raw.Trailer().ArrayBytes("ID", 0)
		return rawIDErr == nil
	}
	return false
}

// OpenFile reads and parses the PDF at path.
func OpenFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Open(data)
}
