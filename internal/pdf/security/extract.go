package security

import (
	"errors"

	"github.com/hashrelay/pdf2hash/internal/pdf/wrapper"
)

// Extract reads the encryption parameters of doc into an EncryptionRecord.
//
// Extraction is all-or-nothing: any required entry that is absent or of the
// wrong type fails the whole document with a *FieldError naming it. Only
// /EncryptMetadata (defaults to true) and the /OE, /UE seeds (omitted when
// not decodable as byte strings) are permissive.
func Extract(doc wrapper.Document) (*EncryptionRecord, error) {
	encDict, err := doc.EncryptionDict()
	if err != nil {
		return nil, err
	}

	algorithm, err := requiredInt(encDict, "V")
	if err != nil {
		return nil, err
	}
	revision, err := requiredInt(encDict, "R")
	if err != nil {
		return nil, err
	}

	keyLength := int64(40)
	if v, err := encDict.Int("Length"); err == nil {
		keyLength = v
	} else if !errors.Is(err, wrapper.ErrKeyMissing) {
		return nil, &FieldError{Field: "/Length"}
	}

	rawPerms, err := requiredInt(encDict, "P")
	if err != nil {
		return nil, err
	}
	// /P is a 32-bit bitmask stored by some writers in unsigned form.
	// Reinterpret the low 32 bits as two's-complement, then sign-extend;
	// widening the stored value directly would corrupt negative masks.
	permissions := int64(int32(uint32(rawPerms)))

	// Missing or mistyped /EncryptMetadata means true, per the PDF spec.
	encryptMetadata := true
	if v, err := encDict.Bool("EncryptMetadata"); err == nil {
		encryptMetadata = v
	}

	documentID, err := documentID(doc.Trailer())
	if err != nil {
		return nil, err
	}

	maxLen := MaxPasswordLength(revision)

	userHash, err := requiredBytes(encDict, "U")
	if err != nil {
		return nil, err
	}
	ownerHash, err := requiredBytes(encDict, "O")
	if err != nil {
		return nil, err
	}

	return &EncryptionRecord{
		Algorithm:       algorithm,
		Revision:        revision,
		KeyLength:       keyLength,
		Permissions:     permissions,
		EncryptMetadata: encryptMetadata,
		DocumentID:      documentID,
		UserHash:        truncate(userHash, maxLen),
		OwnerHash:       truncate(ownerHash, maxLen),
		OwnerSeed:       optionalBytes(encDict, "OE", maxLen),
		UserSeed:        optionalBytes(encDict, "UE", maxLen),
	}, nil
}

func requiredInt(d wrapper.Dict, key string) (int64, error) {
	v, err := d.Int(key)
	if err != nil {
		return 0, &FieldError{Field: "/" + key, Missing: errors.Is(err, wrapper.ErrKeyMissing)}
	}
	return v, nil
}

func requiredBytes(d wrapper.Dict, key string) ([]byte, error) {
	v, err := d.Bytes(key)
	if err != nil {
		return nil, &FieldError{Field: "/" + key, Missing: errors.Is(err, wrapper.ErrKeyMissing)}
	}
	return v, nil
}

// optionalBytes reads a seed entry, yielding nil for a missing key or a
// value that is not a byte string. Presence is decided here, never from
// the revision.
func optionalBytes(d wrapper.Dict, key string, maxLen int) []byte {
	v, err := d.Bytes(key)
	if err != nil {
		return nil
	}
	return truncate(v, maxLen)
}

// documentID pulls the first element of the trailer /ID array. A missing
// key is a missing-field failure; a non-array value, an empty array, or a
// first element that is not a byte string are invalid-field failures.
func documentID(trailer wrapper.Dict) ([]byte, error) {
	id, err := trailer.ArrayBytes("ID", 0)
	if err != nil {
		return nil, &FieldError{Field: "/ID", Missing: errors.Is(err, wrapper.ErrKeyMissing)}
	}
	return id, nil
}
