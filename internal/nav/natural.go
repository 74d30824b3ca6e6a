package nav

import (
	"unicode"
	"unicode/utf8"
)

// NaturalCompare orders strings case-insensitively, treating runs of digits as
// numbers so that "step 2" sorts before "step 10".
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)

		if isDigit(ra) && isDigit(rb) {
			da, restA := digitRun(a)
			db, restB := digitRun(b)
			if c := compareNumeric(da, db); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		// Invalid bytes decode as RuneError with width 1.
		a = a[sa:]
		b = b[sb:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares two digit strings by value without parsing, so runs
// longer than an int64 still order correctly.
func compareNumeric(a, b string) int {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
