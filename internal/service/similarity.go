package service

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// editRatio scores how alike two strings are on a 0..1 scale using edit
// distance over the longer string's rune length. Comparison is
// case-insensitive and ignores surrounding whitespace. Either side empty
// scores 0; identical strings score 1.
func editRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
