package wrapper

import (
	"bytes"
	"fmt"
	"strconv"
)

// A minimal tokenizer for direct PDF objects, enough to pull typed values
// out of an encryption or trailer dictionary body.

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindInt
	kindReal
	kindString
	kindName
	kindArray
	kindDict
	kindRef
)

type rawValue struct {
	kind   valueKind
	num    int64
	flag   bool
	bytes  []byte
	name   string
	arr    []rawValue
	dict   map[string]rawValue
	refNum int64
	refGen int64
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

// skipWhitespace advances past whitespace and comments.
func skipWhitespace(data []byte, pos int) int {
	for pos < len(data) {
		switch {
		case isWhitespace(data[pos]):
			pos++
		case data[pos] == '%':
			for pos < len(data) && data[pos] != '\n' && data[pos] != '\r' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// parseValue parses the direct object starting at pos, returning the value
// and the position just past it.
func parseValue(data []byte, pos int) (rawValue, int, error) {
	pos = skipWhitespace(data, pos)
	if pos >= len(data) {
		return rawValue{}, pos, fmt.Errorf("unexpected end of input")
	}

	switch c := data[pos]; {
	case c == '<':
		if pos+1 < len(data) && data[pos+1] == '<' {
			return parseDict(data, pos)
		}
		return parseHexString(data, pos)
	case c == '(':
		return parseLiteralString(data, pos)
	case c == '/':
		return parseName(data, pos)
	case c == '[':
		return parseArray(data, pos)
	case c == 't' || c == 'f':
		return parseKeyword(data, pos)
	case c == 'n':
		return parseKeyword(data, pos)
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return parseNumberOrRef(data, pos)
	default:
		return rawValue{}, pos, fmt.Errorf("unexpected byte %q", c)
	}
}

func parseDict(data []byte, pos int) (rawValue, int, error) {
	pos += 2 // <<
	entries := map[string]rawValue{}
	for {
		pos = skipWhitespace(data, pos)
		if pos+1 < len(data) && data[pos] == '>' && data[pos+1] == '>' {
			return rawValue{kind: kindDict, dict: entries}, pos + 2, nil
		}
		if pos >= len(data) || data[pos] != '/' {
			return rawValue{}, pos, fmt.Errorf("malformed dictionary")
		}
		key, next, err := parseName(data, pos)
		if err != nil {
			return rawValue{}, next, err
		}
		val, next, err := parseValue(data, next)
		if err != nil {
			return rawValue{}, next, err
		}
		entries[key.name] = val
		pos = next
	}
}

func parseArray(data []byte, pos int) (rawValue, int, error) {
	pos++ // [
	var elems []rawValue
	for {
		pos = skipWhitespace(data, pos)
		if pos >= len(data) {
			return rawValue{}, pos, fmt.Errorf("unterminated array")
		}
		if data[pos] == ']' {
			return rawValue{kind: kindArray, arr: elems}, pos + 1, nil
		}
		v, next, err := parseValue(data, pos)
		if err != nil {
			return rawValue{}, next, err
		}
		elems = append(elems, v)
		pos = next
	}
}

func parseLiteralString(data []byte, pos int) (rawValue, int, error) {
	var buf bytes.Buffer
	pos++ // (
	depth := 1
	for pos < len(data) {
		c := data[pos]
		switch {
		case c == '(':
			depth++
			buf.WriteByte(c)
			pos++
		case c == ')':
			depth--
			if depth == 0 {
				// Non-nil even for (), so an empty string entry stays
				// distinguishable from an absent one.
				out := append([]byte{}, buf.Bytes()...)
				return rawValue{kind: kindString, bytes: out}, pos + 1, nil
			}
			buf.WriteByte(c)
			pos++
		case c == '\\':
			pos++
			if pos >= len(data) {
				return rawValue{}, pos, fmt.Errorf("unterminated string escape")
			}
			switch e := data[pos]; e {
			case 'n':
				buf.WriteByte('\n')
				pos++
			case 'r':
				buf.WriteByte('\r')
				pos++
			case 't':
				buf.WriteByte('\t')
				pos++
			case 'b':
				buf.WriteByte('\b')
				pos++
			case 'f':
				buf.WriteByte('\f')
				pos++
			case '(', ')', '\\':
				buf.WriteByte(e)
				pos++
			case '\r':
				// Line continuation.
				pos++
				if pos < len(data) && data[pos] == '\n' {
					pos++
				}
			case '\n':
				pos++
			default:
				if e >= '0' && e <= '7' {
					oct := string(e)
					pos++
					for i := 0; i < 2 && pos < len(data) && data[pos] >= '0' && data[pos] <= '7'; i++ {
						oct += string(data[pos])
						pos++
					}
					if val, err := strconv.ParseUint(oct, 8, 16); err == nil {
						buf.WriteByte(byte(val))
					}
				} else {
					buf.WriteByte(e)
					pos++
				}
			}
		default:
			buf.WriteByte(c)
			pos++
		}
	}
	return rawValue{}, pos, fmt.Errorf("unterminated literal string")
}

func parseHexString(data []byte, pos int) (rawValue, int, error) {
	var digits []byte
	pos++ // <
	for pos < len(data) && data[pos] != '>' {
		c := data[pos]
		switch {
		case isWhitespace(c):
		case isHexDigit(c):
			digits = append(digits, c)
		default:
			return rawValue{}, pos, fmt.Errorf("invalid hex digit %q", c)
		}
		pos++
	}
	if pos >= len(data) {
		return rawValue{}, pos, fmt.Errorf("unterminated hex string")
	}
	pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := 0; i < len(out); i++ {
		v, _ := strconv.ParseUint(string(digits[i*2:i*2+2]), 16, 8)
		out[i] = byte(v)
	}
	return rawValue{kind: kindString, bytes: out}, pos, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func parseName(data []byte, pos int) (rawValue, int, error) {
	var buf bytes.Buffer
	pos++ // /
	for pos < len(data) && isRegular(data[pos]) {
		c := data[pos]
		if c == '#' && pos+2 < len(data) && isHexDigit(data[pos+1]) && isHexDigit(data[pos+2]) {
			v, _ := strconv.ParseUint(string(data[pos+1:pos+3]), 16, 8)
			buf.WriteByte(byte(v))
			pos += 3
			continue
		}
		buf.WriteByte(c)
		pos++
	}
	return rawValue{kind: kindName, name: buf.String()}, pos, nil
}

func parseKeyword(data []byte, pos int) (rawValue, int, error) {
	end := pos
	for end < len(data) && isRegular(data[end]) {
		end++
	}
	switch string(data[pos:end]) {
	case "true":
		return rawValue{kind: kindBool, flag: true}, end, nil
	case "false":
		return rawValue{kind: kindBool, flag: false}, end, nil
	case "null":
		return rawValue{kind: kindNull}, end, nil
	default:
		return rawValue{}, pos, fmt.Errorf("unexpected keyword %q", data[pos:end])
	}
}

// parseNumberOrRef parses a number, recognizing the "N G R" indirect
// reference form when it applies.
func parseNumberOrRef(data []byte, pos int) (rawValue, int, error) {
	num, next, isInt, err := parseNumber(data, pos)
	if err != nil {
		return rawValue{}, next, err
	}
	if isInt && num.num >= 0 {
		if gen, refEnd, ok := tryReferenceSuffix(data, next); ok {
			return rawValue{kind: kindRef, refNum: num.num, refGen: gen}, refEnd, nil
		}
	}
	return num, next, nil
}

func parseNumber(data []byte, pos int) (rawValue, int, bool, error) {
	end := pos
	real := false
	for end < len(data) {
		c := data[end]
		if c == '.' {
			real = true
		} else if c != '+' && c != '-' && (c < '0' || c > '9') {
			break
		}
		end++
	}
	tok := string(data[pos:end])
	if real {
		if _, err := strconv.ParseFloat(tok, 64); err != nil {
			return rawValue{}, end, false, fmt.Errorf("malformed number %q", tok)
		}
		return rawValue{kind: kindReal}, end, false, nil
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return rawValue{}, end, false, fmt.Errorf("malformed number %q", tok)
	}
	return rawValue{kind: kindInt, num: n}, end, true, nil
}

func tryReferenceSuffix(data []byte, pos int) (int64, int, bool) {
	p := skipWhitespace(data, pos)
	start := p
	for p < len(data) && data[p] >= '0' && data[p] <= '9' {
		p++
	}
	if p == start {
		return 0, 0, false
	}
	gen, err := strconv.ParseInt(string(data[start:p]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	p = skipWhitespace(data, p)
	if p >= len(data) || data[p] != 'R' {
		return 0, 0, false
	}
	if p+1 < len(data) && isRegular(data[p+1]) {
		return 0, 0, false
	}
	return gen, p + 1, true
}
