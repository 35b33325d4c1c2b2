package payload

import "strings"

const upperhex = "0123456789ABCDEF"

// EscapeWiFi backslash-escapes the characters that are significant in the
// WIFI: scheme. The input is scanned once so inserted backslashes are never
// escaped again.
func EscapeWiFi(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\', ';', ',', ':', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PercentEncode escapes every byte except ASCII letters, digits, "_.-~" and "/".
// Spaces become %20, never "+".
func PercentEncode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if shouldKeep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func shouldKeep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-' || c == '~' || c == '/':
		return true
	}
	return false
}

// digitsOnly keeps ASCII digits.
func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if '0' <= c && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// joinQuery appends "?a&b" to base, or returns base untouched when there are
// no parameters.
func joinQuery(base string, params []string) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}
