package models

import (
	"strings"
	"unicode/utf8"
)

// TruncateText cuts s to at most limit bytes without splitting a multibyte
// rune, then trims surrounding whitespace. Extracted text is routinely
// German or otherwise non-ASCII, so a plain byte slice could leave an
// invalid UTF-8 tail.
func TruncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
