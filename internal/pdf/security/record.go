package security

// EncryptionRecord holds the parameters of a document's standard security
// handler, exactly as stored, ready to be serialized for cracking tools.
// OwnerSeed and UserSeed are nil when the document carries no /OE or /UE
// entry; everything else is always populated.
type EncryptionRecord struct {
	Algorithm       int64  // /V
	Revision        int64  // /R
	KeyLength       int64  // /Length, in bits, carried verbatim
	Permissions     int64  // /P, sign-extended from its low 32 bits
	EncryptMetadata bool   // /EncryptMetadata, default true
	DocumentID      []byte // first element of the trailer /ID array
	UserHash        []byte // /U
	OwnerHash       []byte // /O
	OwnerSeed       []byte // /OE, revision 5/6 documents
	UserSeed        []byte // /UE
}

// MaxPasswordLength returns the byte cap applied to the stored password
// hashes and seeds for a given security handler revision. Revisions 2-4
// store 32-byte values; revision 5/6 and anything unrecognized fall through
// to 48.
func MaxPasswordLength(revision int64) int {
	switch revision {
	case 2, 3, 4:
		return 32
	default:
		return 48
	}
}

// truncate caps b at max bytes. Shorter input is returned in full, never
// padded.
func truncate(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
