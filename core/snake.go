package core

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go identifier to its wire spelling:
// "PublicID" -> "public_id", "MaxResults" -> "max_results", "PublicIDs" -> "public_ids".
func ToSnakeCase(s string) string {
	s = strings.ReplaceAll(s, "IDs", "Ids")
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToPascalCase converts a wire name to PascalCase: "public_id" -> "PublicId".
func ToPascalCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		if r == '_' || r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
