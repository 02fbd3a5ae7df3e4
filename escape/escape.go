// Package escape implements the percent-encoding used when building URLs
// and name=value parameter strings.
//
// Two encoding contexts exist. In the generic URL context the structural
// characters "/:?&=" as well as '$' and ',' stay unescaped because they are
// legal in a bare URL. In the parameter context all of them are escaped,
// since they would corrupt a "key=value&key=value" encoding. Space becomes
// '+' in the parameter context and "%20" otherwise.
package escape

import "strings"

const upperhex = "0123456789ABCDEF"

// Allowed-set tables for the two contexts, indexed by ASCII code.
// A true entry means the byte is written through unescaped.
var (
	urlTable   [128]bool
	paramTable [128]bool
)

func init() {
	for c := '0'; c <= '9'; c++ {
		urlTable[c] = true
		paramTable[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		urlTable[c] = true
		paramTable[c] = true
		urlTable[c-'a'+'A'] = true
		paramTable[c-'a'+'A'] = true
	}
	for _, c := range []byte("-_.~") {
		urlTable[c] = true
		paramTable[c] = true
	}
	// Legal in a bare URL, but not inside a parameter.
	for _, c := range []byte("/:?&=$,") {
		urlTable[c] = true
	}
}

// AddEscapeChars percent-encodes every byte of s that is not legal in the
// given context. When isParameter is true the string is going to be used as
// a parameter name or value, so the URL structural characters and '$' and
// ',' are escaped too, and spaces are encoded as '+'.
//
// The input is treated as a byte sequence; multi-byte UTF-8 characters are
// escaped byte by byte. Encoding is never applied implicitly: a '%' in s is
// escaped like any other reserved byte, so already-encoded input will be
// double-escaped if it is passed in again.
func AddEscapeChars(s string, isParameter bool) string {
	table := &urlTable
	if isParameter {
		table = &paramTable
	}

	plusCount, hexCount := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' && isParameter {
			plusCount++
		} else if c >= 128 || !table[c] {
			hexCount++
		}
	}
	if plusCount == 0 && hexCount == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*hexCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' && isParameter:
			b.WriteByte('+')
		case c >= 128 || !table[c]:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RemoveEscapeChars replaces %XX escape sequences in s with their original
// byte values. Hex digits are matched case-insensitively. When isParameter
// is true, '+' is decoded to a space as well.
//
// Malformed sequences (a truncated '%' or non-hex digits) are passed through
// unchanged rather than reported as an error.
func RemoveEscapeChars(s string, isParameter bool) string {
	if !strings.ContainsRune(s, '%') && !(isParameter && strings.ContainsRune(s, '+')) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+' && isParameter:
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s):
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
			} else {
				b.WriteByte('%')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
