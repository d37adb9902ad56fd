package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser capitalizes the first letter of a word segment.
var titleCaser = cases.Title(language.English)

// CamelToSnake converts a camelCase identifier to snake_case.
// An underscore is inserted before every upper-case rune that is not at
// the start of the string.
func CamelToSnake(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// SnakeToCamel converts a snake_case identifier to camelCase. The first
// segment is kept lower-case; subsequent segments are title-cased.
func SnakeToCamel(s string) string {
	if s == "" || !strings.Contains(s, "_") {
		return s
	}

	parts := strings.Split(s, "_")

	var b strings.Builder
	b.Grow(len(s))

	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		b.WriteString(titleCaser.String(part))
	}

	return b.String()
}
