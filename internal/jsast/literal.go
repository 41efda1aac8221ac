package jsast

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquote strips the delimiters from a string or template literal and
// decodes its escape sequences. Malformed escapes are kept verbatim.
func unquote(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	return decodeEscapes(raw[1 : len(raw)-1])
}

func decodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}
		next := s[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+2 < len(s) && s[i+2] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHex(s, i+2, 2); ok {
				b.WriteRune(r)
				i += 4
				continue
			}
			b.WriteString(s[i : i+2])
		case 'u':
			if r, n, ok := parseUnicodeEscape(s, i+2); ok {
				b.WriteRune(r)
				i += 2 + n
				continue
			}
			b.WriteString(s[i : i+2])
		default:
			r, size := utf8.DecodeRuneInString(s[i+1:])
			b.WriteRune(r)
			i += 1 + size
			continue
		}
		i += 2
	}
	return b.String()
}

func parseHex(s string, start, n int) (rune, bool) {
	if start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseUnicodeEscape reads `HHHH` or `{H...}` at start and returns the rune
// and the number of bytes consumed.
func parseUnicodeEscape(s string, start int) (rune, int, bool) {
	if start < len(s) && s[start] == '{' {
		end := strings.IndexByte(s[start:], '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[start+1:start+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	r, ok := parseHex(s, start, 4)
	return r, 4, ok
}
