package schema

import (
	"math"
	"sort"
	"strings"
)

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentOf returns part as a percentage of total, rounded to two decimal
// places. Zero totals yield zero.
func PercentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// FormatAuthors formats a list of usernames as "a, b, c".
func FormatAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

// AuthorsEqual compares two slices of usernames, considering them equal if
// they contain the same entries regardless of order.
func AuthorsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	aSorted := make([]string, len(a))
	copy(aSorted, a)
	sort.Strings(aSorted)

	bSorted := make([]string, len(b))
	copy(bSorted, b)
	sort.Strings(bSorted)

	for i := range aSorted {
		if aSorted[i] != bSorted[i] {
			return false
		}
	}
	return true
}

// IsBotAuthor reports whether username appears in the exclusion list,
// matched case-insensitively.
func IsBotAuthor(username string, excluded []string) bool {
	for _, e := range excluded {
		if strings.EqualFold(username, e) {
			return true
		}
	}
	return false
}
