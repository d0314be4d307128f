package wrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, input string) rawValue {
	t.Helper()
	v, _, err := parseValue([]byte(input), 0)
	require.NoError(t, err)
	return v
}

func TestParseLiteralString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"plain", "(hello)", []byte("hello")},
		{"empty", "()", []byte{}},
		{"balanced nested parens", "(a(b)c)", []byte("a(b)c")},
		{"escaped parens", `(a\(b\)c)`, []byte("a(b)c")},
		{"escaped backslash", `(a\\b)`, []byte(`a\b`)},
		{"control escapes", `(\n\r\t\b\f)`, []byte("\n\r\t\b\f")},
		{"octal escapes", `(\101\102\103)`, []byte("ABC")},
		{"octal high byte", `(\377)`, []byte{0xFF}},
		{"octal single digit", `(\0a)`, []byte{0x00, 'a'}},
		{"unknown escape keeps byte", `(\z)`, []byte("z")},
		{"line continuation", "(ab\\\ncd)", []byte("abcd")},
		{"binary bytes pass through", "(\x01\x02\x03)", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := parseOne(t, tt.input)
			assert.Equal(t, kindString, v.kind)
			assert.Equal(t, tt.want, v.bytes)
		})
	}
}

func TestParseLiteralStringUnterminated(t *testing.T) {
	_, _, err := parseValue([]byte("(never closed"), 0)
	assert.Error(t, err)
}

func TestParseHexString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"lowercase", "<0a1b2c>", []byte{0x0a, 0x1b, 0x2c}},
		{"uppercase", "<0A1B2C>", []byte{0x0a, 0x1b, 0x2c}},
		{"embedded whitespace", "<0a 1b\n2c>", []byte{0x0a, 0x1b, 0x2c}},
		{"odd digit count pads zero", "<abc>", []byte{0xab, 0xc0}},
		{"empty", "<>", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := parseOne(t, tt.input)
			assert.Equal(t, kindString, v.kind)
			assert.Equal(t, tt.want, v.bytes)
		})
	}

	_, _, err := parseValue([]byte("<0a1b"), 0)
	assert.Error(t, err, "unterminated hex string")

	_, _, err = parseValue([]byte("<zz>"), 0)
	assert.Error(t, err, "invalid hex digit")
}

func TestParseName(t *testing.T) {
	v := parseOne(t, "/EncryptMetadata")
	assert.Equal(t, kindName, v.kind)
	assert.Equal(t, "EncryptMetadata", v.name)

	v = parseOne(t, "/A#20B")
	assert.Equal(t, "A B", v.name, "hex escape in name")

	v = parseOne(t, "/Name(trailing")
	assert.Equal(t, "Name", v.name, "delimiter terminates the name")
}

func TestParseKeywords(t *testing.T) {
	v := parseOne(t, "true")
	assert.Equal(t, kindBool, v.kind)
	assert.True(t, v.flag)

	v = parseOne(t, "false")
	assert.Equal(t, kindBool, v.kind)
	assert.False(t, v.flag)

	v = parseOne(t, "null")
	assert.Equal(t, kindNull, v.kind)

	_, _, err := parseValue([]byte("tralse"), 0)
	assert.Error(t, err)
}

func TestParseNumbers(t *testing.T) {
	v := parseOne(t, "128")
	assert.Equal(t, kindInt, v.kind)
	assert.Equal(t, int64(128), v.num)

	v = parseOne(t, "-3904")
	assert.Equal(t, kindInt, v.kind)
	assert.Equal(t, int64(-3904), v.num)

	v = parseOne(t, "4294963392")
	assert.Equal(t, int64(4294963392), v.num)

	v = parseOne(t, "3.14")
	assert.Equal(t, kindReal, v.kind)
}

func TestParseReference(t *testing.T) {
	v := parseOne(t, "12 0 R")
	require.Equal(t, kindRef, v.kind)
	assert.Equal(t, int64(12), v.refNum)
	assert.Equal(t, int64(0), v.refGen)

	// "R" followed by a regular character is not a reference.
	v = parseOne(t, "12 0 Rx")
	assert.Equal(t, kindInt, v.kind)
	assert.Equal(t, int64(12), v.num)

	// Negative numbers never start a reference.
	v = parseOne(t, "-12 0 R")
	assert.Equal(t, kindInt, v.kind)
	assert.Equal(t, int64(-12), v.num)
}

func TestParseArray(t *testing.T) {
	v := parseOne(t, "[ 1 2 0 R (str) <aabb> /Name ]")
	require.Equal(t, kindArray, v.kind)
	require.Len(t, v.arr, 5)

	assert.Equal(t, kindInt, v.arr[0].kind)
	assert.Equal(t, kindRef, v.arr[1].kind)
	assert.Equal(t, kindString, v.arr[2].kind)
	assert.Equal(t, []byte{0xaa, 0xbb}, v.arr[3].bytes)
	assert.Equal(t, "Name", v.arr[4].name)

	_, _, err := parseValue([]byte("[ 1 2"), 0)
	assert.Error(t, err, "unterminated array")
}

func TestParseDict(t *testing.T) {
	v := parseOne(t, "<< /V 4 /Nested << /R 6 >> /Arr [ 1 2 ] /Flag true >>")
	require.Equal(t, kindDict, v.kind)

	assert.Equal(t, int64(4), v.dict["V"].num)
	assert.Equal(t, kindDict, v.dict["Nested"].kind)
	assert.Equal(t, int64(6), v.dict["Nested"].dict["R"].num)
	assert.Len(t, v.dict["Arr"].arr, 2)
	assert.True(t, v.dict["Flag"].flag)

	_, _, err := parseValue([]byte("<< /V 4"), 0)
	assert.Error(t, err, "unterminated dictionary")

	_, _, err = parseValue([]byte("<< 4 5 >>"), 0)
	assert.Error(t, err, "key must be a name")
}

func TestSkipWhitespaceAndComments(t *testing.T) {
	v := parseOne(t, "  % a comment\n  42")
	assert.Equal(t, int64(42), v.num)

	pos := skipWhitespace([]byte("   \t\r\nabc"), 0)
	assert.Equal(t, 6, pos)

	pos = skipWhitespace([]byte("% only a comment"), 0)
	assert.Equal(t, 16, pos)
}
