package wrapper

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// RawScanDocument implements Document by scanning the raw file bytes for
// the encryption dictionary and the trailer, without building a full
// cross-reference table. It exists for documents that structured parsers
// refuse, most importantly files protected by a non-empty user password.
type RawScanDocument struct {
	data    []byte
	encrypt *rawDict
	trailer *rawDict
}

var (
	pdfHeader      = []byte("%PDF-")
	encryptRefRx   = regexp.MustCompile(`/Encrypt\s+(\d+)\s+(\d+)\s+R`)
	encryptInline  = regexp.MustCompile(`/Encrypt\s*<<`)
	errNoSuchValue = fmt.Errorf("no value")
)

// OpenRawScan scans data for the most recent /Encrypt reference and the
// trailer /ID entry. It fails only when the bytes are not a PDF at all;
// a missing encryption dictionary surfaces later via EncryptionDict.
func OpenRawScan(data []byte) (*RawScanDocument, error) {
	if !bytes.HasPrefix(data, pdfHeader) {
		return nil, &WrapperError{
			Library: LibraryRawScan,
			Op:      "open",
			Err:     fmt.Errorf("missing %%PDF header"),
		}
	}

	doc := &RawScanDocument{data: data}
	doc.encrypt = doc.findEncryptDict()
	doc.trailer = doc.findTrailerDict()
	return doc, nil
}

func (d *RawScanDocument) EncryptionDict() (Dict, error) {
	if d.encrypt == nil {
		return nil, ErrNotEncrypted
	}
	return d.encrypt, nil
}

func (d *RawScanDocument) Trailer() Dict {
	return d.trailer
}

// findEncryptDict locates the encryption dictionary, preferring the last
// /Encrypt reference in the file so incremental updates win.
func (d *RawScanDocument) findEncryptDict() *rawDict {
	matches := encryptRefRx.FindAllSubmatchIndex(d.data, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		objNum, _ := strconv.ParseInt(string(d.data[m[2]:m[3]]), 10, 64)
		genNum, _ := strconv.ParseInt(string(d.data[m[4]:m[5]]), 10, 64)
		if dict := d.parseObjectDict(objNum, genNum); dict != nil {
			return dict
		}
	}

	// Some writers inline the dictionary into the trailer.
	inline := encryptInline.FindAllIndex(d.data, -1)
	for i := len(inline) - 1; i >= 0; i-- {
		pos := inline[i][1] - 2 // back to "<<"
		if v, _, err := parseValue(d.data, pos); err == nil && v.kind == kindDict {
			return &rawDict{entries: v.dict, doc: d}
		}
	}
	return nil
}

// parseObjectDict parses "N G obj << ... >>" for the given object number.
func (d *RawScanDocument) parseObjectDict(objNum, genNum int64) *rawDict {
	v, err := d.resolveObject(objNum, genNum)
	if err != nil || v.kind != kindDict {
		return nil
	}
	return &rawDict{entries: v.dict, doc: d}
}

func (d *RawScanDocument) resolveObject(objNum, genNum int64) (rawValue, error) {
	marker := []byte(fmt.Sprintf("%d %d obj", objNum, genNum))
	search := d.data
	base := 0
	for {
		idx := bytes.Index(search, marker)
		if idx < 0 {
			return rawValue{}, errNoSuchValue
		}
		// The marker must start a token, not terminate a longer number.
		if idx == 0 || isDelimiter(search[idx-1]) || isWhitespace(search[idx-1]) {
			v, _, err := parseValue(d.data, base+idx+len(marker))
			if err == nil {
				return v, nil
			}
		}
		base += idx + len(marker)
		search = d.data[base:]
	}
}

// findTrailerDict parses the dictionary after the last "trailer" keyword.
// Files using cross-reference streams carry /ID in the stream dictionary
// instead, so failing that the /ID array is recovered directly.
func (d *RawScanDocument) findTrailerDict() *rawDict {
	if idx := bytes.LastIndex(d.data, []byte("trailer")); idx >= 0 {
		pos := skipWhitespace(d.data, idx+len("trailer"))
		if v, _, err := parseValue(d.data, pos); err == nil && v.kind == kindDict {
			return &rawDict{entries: v.dict, doc: d}
		}
	}

	// Recover /ID on its own, scanning from the end of the file.
	search := d.data
	for {
		idx := bytes.LastIndex(search, []byte("/ID"))
		if idx < 0 {
			break
		}
		pos := skipWhitespace(d.data, idx+len("/ID"))
		if pos < len(d.data) && d.data[pos] == '[' {
			if v, _, err := parseValue(d.data, pos); err == nil && v.kind == kindArray {
				return &rawDict{entries: map[string]rawValue{"ID": v}, doc: d}
			}
		}
		search = search[:idx]
	}

	return &rawDict{entries: map[string]rawValue{}, doc: d}
}

// rawDict adapts a parsed dictionary body to the typed lookup contract.
type rawDict struct {
	entries map[string]rawValue
	doc     *RawScanDocument
}

func (rd *rawDict) lookup(key string) (rawValue, error) {
	v, ok := rd.entries[key]
	if !ok {
		return rawValue{}, fmt.Errorf("%s: %w", key, ErrKeyMissing)
	}
	if v.kind == kindRef {
		resolved, err := rd.doc.resolveObject(v.refNum, v.refGen)
		if err != nil {
			return rawValue{}, fmt.Errorf("%s: %w", key, ErrWrongType)
		}
		return resolved, nil
	}
	return v, nil
}

func (rd *rawDict) Int(key string) (int64, error) {
	v, err := rd.lookup(key)
	if err != nil {
		return 0, err
	}
	if v.kind != kindInt {
		return 0, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return v.num, nil
}

func (rd *rawDict) Bool(key string) (bool, error) {
	v, err := rd.lookup(key)
	if err != nil {
		return false, err
	}
	if v.kind != kindBool {
		return false, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return v.flag, nil
}

func (rd *rawDict) Bytes(key string) ([]byte, error) {
	v, err := rd.lookup(key)
	if err != nil {
		return nil, err
	}
	if v.kind != kindString {
		return nil, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	return v.bytes, nil
}

func (rd *rawDict) ArrayBytes(key string, idx int) ([]byte, error) {
	v, err := rd.lookup(key)
	if err != nil {
		return nil, err
	}
	if v.kind != kindArray {
		return nil, fmt.Errorf("%s: %w", key, ErrWrongType)
	}
	if idx < 0 || idx >= len(v.arr) {
		return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
	}
	elem := v.arr[idx]
	if elem.kind == kindRef {
		resolved, err := rd.doc.resolveObject(elem.refNum, elem.refGen)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
		}
		elem = resolved
	}
	if elem.kind != kindString {
		return nil, fmt.Errorf("%s[%d]: %w", key, idx, ErrWrongType)
	}
	return elem.bytes, nil
}
