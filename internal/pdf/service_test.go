package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxFileSize = int64(10 << 20)
	testIDHex       = "0102030405060708090a0b0c0d0e0f10"
)

// encryptedPDFBytes builds a synthetic encrypted file. The xref offsets are
// bogus, which is representative: password-protected inputs routinely defeat
// structured parsing and are handled by the raw scanner.
func encryptedPDFBytes() []byte {
	return []byte(`%PDF-1.6
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
5 0 obj
<< /Filter /Standard /V 4 /R 4 /Length 128 /P -3904 /O <` + strings.Repeat("ab", 32) + `> /U <` + strings.Repeat("cd", 32) + `> >>
endobj
trailer
<< /Size 6 /Root 1 0 R /Encrypt 5 0 R /ID [ <` + testIDHex + `> <` + testIDHex + `> ] >>
startxref
116
%%EOF
`)
}

func aesEncryptedPDFBytes() []byte {
	return []byte(`%PDF-1.7
5 0 obj
<< /Filter /Standard /V 5 /R 6 /Length 256 /P -4 /EncryptMetadata false /O <` + strings.Repeat("11", 48) + `> /U <` + strings.Repeat("22", 48) + `> /OE <` + strings.Repeat("33", 32) + `> /UE <` + strings.Repeat("44", 32) + `> >>
endobj
trailer
<< /Size 6 /Encrypt 5 0 R /ID [ <` + testIDHex + `> <` + testIDHex + `> ] >>
%%EOF
`)
}

func plainPDFBytes() []byte {
	return []byte(`%PDF-1.4
1 0 obj
<< /Type /Catalog >>
endobj
trailer
<< /Size 2 /Root 1 0 R /ID [ <` + testIDHex + `> <` + testIDHex + `> ] >>
%%EOF
`)
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const wantRC4Hash = "$pdf$4*4*128*-3904*1*16*" + testIDHex +
	"*32*cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd" +
	"*32*abababababababababababababababababababababababababababababababab"

func TestServiceExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "secret.pdf", encryptedPDFBytes())

	svc := NewService(testMaxFileSize)
	result, err := svc.ExtractFile(ExtractFileRequest{Path: path})
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.Equal(t, wantRC4Hash, result.Hash)
	assert.Equal(t, int64(len(encryptedPDFBytes())), result.Size)
}

func TestServiceExtractFileWithSeeds(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "aes.pdf", aesEncryptedPDFBytes())

	svc := NewService(testMaxFileSize)
	result, err := svc.ExtractFile(ExtractFileRequest{Path: path})
	require.NoError(t, err)

	want := "$pdf$5*6*256*-4*0*16*" + testIDHex +
		"*48*" + strings.Repeat("11", 48) +
		"*48*" + strings.Repeat("22", 48) +
		"*32*" + strings.Repeat("33", 32) +
		"*32*" + strings.Repeat("44", 32)
	assert.Equal(t, want, result.Hash)
}

func TestServiceExtractFileErrors(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(testMaxFileSize)

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "nope.pdf")},
		{"not a PDF", writeTestFile(t, dir, "notes.pdf", []byte("just some text"))},
		{"not encrypted", writeTestFile(t, dir, "plain.pdf", plainPDFBytes())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ExtractFile(ExtractFileRequest{Path: tt.path})
			assert.Error(t, err)
		})
	}
}

func TestServiceExtractBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good1 := writeTestFile(t, dir, "a.pdf", encryptedPDFBytes())
	bad := writeTestFile(t, dir, "b.pdf", []byte("%PDF-1.4 truncated garbage"))
	good2 := writeTestFile(t, dir, "c.pdf", encryptedPDFBytes())

	svc := NewService(testMaxFileSize)
	results := svc.ExtractBatch([]string{good1, bad, good2})
	require.Len(t, results, 3)

	assert.Equal(t, good1, results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, wantRC4Hash, results[0].Hash)

	assert.Equal(t, bad, results[1].Path)
	assert.Error(t, results[1].Err)
	assert.Empty(t, results[1].Hash)

	assert.Equal(t, good2, results[2].Path)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, wantRC4Hash, results[2].Hash)
}

// corruptXrefPDFBytes is an encrypted file with a garbage xref stream and
// no startxref. Inputs like this have driven structured parsers into
// panics; a batch containing one must still run to completion.
func corruptXrefPDFBytes() []byte {
	return []byte(`%PDF-1.5
5 0 obj
<< /Filter /Standard /V 4 /R 4 /Length 128 /P -3904 /O <` + strings.Repeat("ab", 32) + `> /U <` + strings.Repeat("cd", 32) + `> >>
endobj
2 0 obj
<< /Type /XRef /W [ 1 2 1 ] /Size 3 /Filter /FlateDecode /Length 64 >>
stream
(((((
endstream
endobj
trailer
<< /Size 6 /Encrypt 5 0 R /ID [ <` + testIDHex + `> <` + testIDHex + `> ] >>
%%EOF
`)
}

func TestServiceExtractBatchSurvivesCorruptXref(t *testing.T) {
	dir := t.TempDir()
	first := writeTestFile(t, dir, "a.pdf", encryptedPDFBytes())
	corrupt := writeTestFile(t, dir, "b.pdf", corruptXrefPDFBytes())
	last := writeTestFile(t, dir, "c.pdf", encryptedPDFBytes())

	svc := NewService(testMaxFileSize)
	results := svc.ExtractBatch([]string{first, corrupt, last})
	require.Len(t, results, 3)

	assert.Equal(t, wantRC4Hash, results[0].Hash)
	assert.Equal(t, wantRC4Hash, results[2].Hash)

	// The middle file degrades to the raw scanner, which can still read
	// its encryption dictionary.
	assert.NoError(t, results[1].Err)
	assert.Equal(t, wantRC4Hash, results[1].Hash)
}

func TestServiceExtractBatchEmpty(t *testing.T) {
	svc := NewService(testMaxFileSize)
	assert.Empty(t, svc.ExtractBatch(nil))
}

func TestServiceEncryptionInfo(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(testMaxFileSize)

	t.Run("rc4 without seeds", func(t *testing.T) {
		path := writeTestFile(t, dir, "rc4.pdf", encryptedPDFBytes())

		info, err := svc.EncryptionInfo(EncryptionInfoRequest{Path: path})
		require.NoError(t, err)

		assert.Equal(t, int64(4), info.Algorithm)
		assert.Equal(t, int64(4), info.Revision)
		assert.Equal(t, int64(128), info.KeyLengthBits)
		assert.Equal(t, int64(-3904), info.Permissions)
		assert.True(t, info.EncryptMetadata)
		assert.False(t, info.HasEncryptionSeed)
	})

	t.Run("aes with seeds", func(t *testing.T) {
		path := writeTestFile(t, dir, "aes.pdf", aesEncryptedPDFBytes())

		info, err := svc.EncryptionInfo(EncryptionInfoRequest{Path: path})
		require.NoError(t, err)

		assert.Equal(t, int64(5), info.Algorithm)
		assert.Equal(t, int64(6), info.Revision)
		assert.False(t, info.EncryptMetadata)
		assert.True(t, info.HasEncryptionSeed)
		assert.Len(t, info.AllowedOperations, 8, "permission mask -4 grants everything")
		assert.Empty(t, info.DeniedOperations)
	})
}

func TestServiceScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "one.pdf", encryptedPDFBytes())
	writeTestFile(t, dir, "broken.pdf", []byte("%PDF-1.4 nothing else"))
	writeTestFile(t, dir, "readme.txt", []byte("not a pdf"))

	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(nested, 0o755))
	writeTestFile(t, nested, "two.pdf", encryptedPDFBytes())

	svc := NewService(testMaxFileSize)
	result, err := svc.ScanDirectory(ScanDirectoryRequest{Directory: dir})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount, "both good PDFs plus the broken one")
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Results, 3)

	succeeded := 0
	for _, r := range result.Results {
		if r.Err == nil {
			succeeded++
			assert.Equal(t, wantRC4Hash, r.Hash)
		}
	}
	assert.Equal(t, 2, succeeded)
}

func TestServiceScanDirectoryMissing(t *testing.T) {
	svc := NewService(testMaxFileSize)
	_, err := svc.ScanDirectory(ScanDirectoryRequest{Directory: "/no/such/dir"})
	assert.Error(t, err)
}
