package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Arabic, Arabic Supplement and Arabic Extended-A blocks.
var arabicRange = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}]`)

// IsRightToLeftScript reports whether the value should be laid out
// right-to-left. The decision is made per field from its content; there is
// no global locale switch, so mixed-language records render each field
// independently.
func IsRightToLeftScript(text string) bool {
	if text == "" {
		return false
	}
	return arabicRange.MatchString(text)
}

// RepairMojibake attempts one corrective re-decode of a value that was
// decoded as Latin-1 while actually holding UTF-8 bytes. The marker runes
// ('þ', 'Ã') are what such double-decoding leaves behind in Arabic names.
// When the repair does not produce valid UTF-8 the input is returned as-is;
// the caller keeps going either way.
func RepairMojibake(text string) string {
	text = strings.TrimSpace(text)
	if !strings.ContainsAny(text, "þÃ") {
		return text
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil || !utf8.ValidString(raw) {
		return text
	}
	return raw
}
