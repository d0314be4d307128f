package wrapper

import (
	"errors"
	"fmt"
)

// Document is the unified view of a parsed PDF that the extraction layer
// consumes. Backends resolve indirect references before handing out values,
// so callers always see direct objects.
type Document interface {
	// EncryptionDict returns the document's encryption dictionary, or
	// ErrNotEncrypted when the document declares no /Encrypt entry.
	EncryptionDict() (Dict, error)

	// Trailer returns the trailer dictionary. For the extraction layer the
	// relevant entry is /ID.
	Trailer() Dict
}

// Dict provides typed access to the entries of a PDF dictionary.
//
// Every accessor distinguishes a missing key (ErrKeyMissing) from a key
// whose value does not coerce to the requested kind (ErrWrongType); both
// are wrapped with the key name.
type Dict interface {
	// Int returns an integer-valued entry.
	Int(key string) (int64, error)

	// Bool returns a boolean-valued entry.
	Bool(key string) (bool, error)

	// Bytes returns a string-valued entry (literal or hex) as raw bytes.
	Bytes(key string) ([]byte, error)

	// ArrayBytes returns element idx of an array-valued entry, decoded as a
	// byte string. A key that is not an array, an index out of range, or an
	// element that is not a string all fail with ErrWrongType.
	ArrayBytes(key string, idx int) ([]byte, error)
}

// LibraryType identifies the backend that produced a Document.
type LibraryType string

const (
	LibraryPDFCPU  LibraryType = "pdfcpu"
	LibraryRawScan LibraryType = "rawscan"
)

// Sentinel errors for dictionary lookups and document state.
var (
	ErrNotEncrypted = errors.New("file is not encrypted")
	ErrKeyMissing   = errors.New("key not found")
	ErrWrongType    = errors.New("unexpected object type")
)

// WrapperError wraps a backend failure with the library and operation that
// produced it.
type WrapperError struct {
	Library LibraryType
	Op      string
	Err     error
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}
