package preflight

import (
	"strconv"
	"strings"
)

// VersionLess reports whether version a sorts strictly before version b.
//
// Versions are compared as dot-separated integer sequences, so "3.10" is
// newer than "3.9". Hyphens count as dots, non-numeric tails ("rc1",
// "post0") are ignored, and missing components compare as zero. This is a
// deliberately lightweight comparator — full PEP 440 parsing would need a
// dependency for precision the minimum-version check does not require.
func VersionLess(a, b string) bool {
	av := normalizeVersion(a)
	bv := normalizeVersion(b)

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x != y {
			return x < y
		}
	}
	return false
}

// ValidVersion reports whether s has at least one leading numeric
// component, i.e. whether VersionLess can compare it meaningfully.
func ValidVersion(s string) bool {
	return len(normalizeVersion(s)) > 0
}

// normalizeVersion extracts the leading integer components of a version
// string, stopping at the first non-numeric part.
func normalizeVersion(s string) []int {
	var parts []int
	for _, p := range strings.Split(strings.ReplaceAll(s, "-", "."), ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}
