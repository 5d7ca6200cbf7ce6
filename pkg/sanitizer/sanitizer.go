// Package sanitizer normalizes free-text fields before validation and
// persistence: whitespace collapsing for names and addresses, lowercasing
// for city keys used in queries.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeNameOrAddress(s string) string {
	return TrimAndNormalize(s)
}

func NormalizeCity(city string) string {
	return strings.ToLower(TrimAndNormalize(city))
}

func NormalizeRoomType(roomType string) string {
	return TrimAndNormalize(roomType)
}
