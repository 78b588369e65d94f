package search

import (
	"strconv"
	"strings"
)

// DefaultMaxHymnNumber is the highest classic hymn number in the hymnal.
const DefaultMaxHymnNumber = 1360

// IsPositiveInteger reports whether s is made only of decimal digits and names a number above zero.
func IsPositiveInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// MatchNumbers returns, in ascending order, the classic hymn numbers from 1 to maxNumber whose decimal form starts with input.
//
// "13" matches 13, 130-139 and 1300-1360 for the default maximum.
func MatchNumbers(input string, maxNumber int) []string {
	input = strings.TrimSpace(input)
	if !IsPositiveInteger(input) {
		return nil
	}

	var matches []string
	for i := 1; i <= maxNumber; i++ {
		if n := strconv.Itoa(i); strings.HasPrefix(n, input) {
			matches = append(matches, n)
		}
	}
	return matches
}
