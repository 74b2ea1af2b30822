package engine

import (
	"strings"
	"unicode"
)

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}

// SanitizeKeyword keeps letters, digits and combining marks. Zero-width
// characters are dropped, everything else becomes a space, and runs of
// spaces collapse to one.
func SanitizeKeyword(keyword string) string {
	var b strings.Builder
	b.Grow(len(keyword))
	for _, r := range keyword {
		switch {
		case isZeroWidth(r):
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
