package security

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HashString serializes the record into the delimited $pdf$ format consumed
// by offline cracking tools (John the Ripper's pdf format, hashcat modes
// 10400-10700).
//
// Layout, fields joined by '*':
//
//	$pdf$V*R*Length*P*EM*idLen*idHex*uLen*uHex*oLen*oHex[*oeLen*oeHex][*ueLen*ueHex]
//
// Lengths count raw bytes, hex is lowercase, and the optional seed segments
// are omitted entirely when the record has none, owner seed first when both
// are present.
func (r *EncryptionRecord) HashString() string {
	encryptMetadataFlag := 0
	if r.EncryptMetadata {
		encryptMetadataFlag = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$pdf$%d*%d*%d*%d*%d*%d*%s*%d*%s*%d*%s",
		r.Algorithm,
		r.Revision,
		r.KeyLength,
		r.Permissions,
		encryptMetadataFlag,
		len(r.DocumentID),
		hex.EncodeToString(r.DocumentID),
		len(r.UserHash),
		hex.EncodeToString(r.UserHash),
		len(r.OwnerHash),
		hex.EncodeToString(r.OwnerHash),
	)

	if r.OwnerSeed != nil {
		fmt.Fprintf(&b, "*%d*%s", len(r.OwnerSeed), hex.EncodeToString(r.OwnerSeed))
	}
	if r.UserSeed != nil {
		fmt.Fprintf(&b, "*%d*%s", len(r.UserSeed), hex.EncodeToString(r.UserSeed))
	}

	return b.String()
}
