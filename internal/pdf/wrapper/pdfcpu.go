package wrapper

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUDocument implements Document on top of a pdfcpu read context.
type PDFCPUDocument struct {
	ctx *model.Context
}

// OpenPDFCPU parses a PDF with pdfcpu. Note that pdfcpu authenticates
// against the encryption dictionary while reading the xref table, so a
// document protected by a non-empty user password fails here; the factory
// falls back to the raw-scan backend in that case.
func OpenPDFCPU(rs io.ReadSeeker) (doc *PDFCPUDocument, err error) {
	// pdfcpu can panic on malformed xref streams. A corrupt document must
	// surface as an error the factory can fall back from, never crash the
	// batch.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &WrapperError{
				Library: LibraryPDFCPU,
				Op:      "open",
				Err:     fmt.Errorf("parser panic: %v", r),
			}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, readErr := api.ReadContext(rs, conf)
	if readErr != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open",
			Err:     fmt.Errorf("failed to read PDF context: %w", readErr),
		}
	}

	return &PDFCPUDocument{ctx: ctx}, nil
}

// EncryptionDict returns the dereferenced /Encrypt dictionary.
func (d *PDFCPUDocument) EncryptionDict() (Dict, error) {
	if d.ctx.Encrypt == nil {
		return nil, ErrNotEncrypted
	}

	dict, err := d.ctx.DereferenceDict(*d.ctx.Encrypt)
	if err != nil || dict == nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "encryption_dict",
			Err:     fmt.Errorf("cannot resolve /Encrypt: %w", err),
		}
	}

	return &pdfcpuDict{xref: d.ctx.XRefTable, dict: dict}, nil
}

// Trailer exposes the trailer entries pdfcpu retains on its xref table.
func (d *PDFCPUDocument) Trailer() Dict {
	return &pdfcpuTrailer{xref: d.ctx.XRefTable}
}

// pdfcpuDict adapts a types.Dict to the typed lookup contract. Values are
// dereferenced before coercion so indirect entries behave like direct ones.
type pdfcpuDict struct {
	xref *model.XRefTable
	dict types.Dict
}

func (pd *pdfcpuDict) resolve(key string) (types.Object, error) {
	obj, found := pd.dict.Find(key)
	if !found {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyMissing)
	}
	obj, err := pd.xref.Dereference(obj)
	if err != nil || obj == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return obj, nil
}

func (pd *pdfcpuDict) Int(key string) (int64, error) {
	obj, err := pd.resolve(key)
	if err != nil {
		return 0, err
	}
	i, ok := obj.(types.Integer)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return int64(i.Value()), nil
}

func (pd *pdfcpuDict) Bool(key string) (bool, error) {
	obj, err := pd.resolve(key)
	if err != nil {
		return false, err
	}
	b, ok := obj.(types.Boolean)
	if !ok {
		return false, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return b.Value(), nil
}

func (pd *pdfcpuDict) Bytes(key string) ([]byte, error) {
	obj, err := pd.resolve(key)
	if err != nil {
		return nil, err
	}
	bb, err := stringObjectBytes(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return bb, nil
}

func (pd *pdfcpuDict) ArrayBytes(key string, idx int) ([]byte, error) {
	obj, err := pd.resolve(key)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return arrayElementBytes(pd.xref, arr, key, idx)
}

// pdfcpuTrailer serves trailer lookups. pdfcpu does not keep the raw
// trailer dictionary around, but it lifts the entries relevant here onto
// the xref table, /ID included.
type pdfcpuTrailer struct {
	xref *model.XRefTable
}

func (t *pdfcpuTrailer) Int(key string) (int64, error) {
	return 0, fmt.Errorf("%s: %w", key, ErrKeyMissing)
}

func (t *pdfcpuTrailer) Bool(key string) (bool, error) {
	return false, fmt.Errorf("%s: %w", key, ErrKeyMissing)
}

func (t *pdfcpuTrailer) Bytes(key string) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", key, ErrKeyMissing)
}

func (t *pdfcpuTrailer) ArrayBytes(key string, idx int) ([]byte, error) {
	if key != "ID" || t.xref.ID == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyMissing)
	}
	return arrayElementBytes(t.xref, t.xref.ID, key, idx)
}

func arrayElementBytes(xref *model.XRefTable, arr types.Array, key string, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(arr) {
		return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
	}
	obj, err := xref.Dereference(arr[idx])
	if err != nil || obj == nil {
		return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
	}
	bb, err := stringObjectBytes(obj)
	if err != nil {
		return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
	}
	return bb, nil
}

// stringObjectBytes decodes a PDF string object, literal or hex, into its
// raw bytes.
func stringObjectBytes(obj types.Object) ([]byte, error) {
	switch s := obj.(type) {
	case types.StringLiteral:
		return types.Unescape(s.Value())
	case types.HexLiteral:
		return s.Bytes()
	default:
		return nil, fmt.Errorf("not a string object: %T", obj)
	}
}
