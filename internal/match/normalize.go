package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes a property name for fuzzy matching: separators
// (_, -, spaces) are dropped and the rest is case-folded, so "shipTo",
// "ShipTo" and "ship_to" compare equal.
func NormalizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, s)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
