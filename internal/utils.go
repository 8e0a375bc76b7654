package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// ShortHash returns the first 8 hex characters of the MD5 of data, used to
// name media files by content
func ShortHash(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeFilename creates a safe filename from a string. Letters of any
// script (kanji and kana included), digits and -_() are kept; everything
// else becomes an underscore.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if isFilenameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isFilenameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '-' || r == '_' || r == '(' || r == ')'
}
