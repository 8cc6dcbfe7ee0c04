// Package version implements package version comparison with
// epoch:pkgver-pkgrel semantics.
package version

import "strconv"

// Parsed is a version string split into its three parts. Epoch defaults to
// 0, Rel is empty when the version carries no -pkgrel suffix.
type Parsed struct {
	Epoch int
	Ver   string
	Rel   string
}

// Parse splits an epoch:pkgver-pkgrel string. It never fails: a malformed
// epoch is treated as 0 and a missing pkgrel is left empty.
func Parse(v string) Parsed {
	p := Parsed{Ver: v}
	for i := 0; i < len(v); i++ {
		if v[i] == ':' {
			if epoch, err := strconv.Atoi(v[:i]); err == nil {
				p.Epoch = epoch
			}
			p.Ver = v[i+1:]
			break
		}
		if !isDigit(v[i]) {
			break
		}
	}
	for i := len(p.Ver) - 1; i > 0; i-- {
		if p.Ver[i] == '-' {
			p.Rel = p.Ver[i+1:]
			p.Ver = p.Ver[:i]
			break
		}
	}
	return p
}

// Compare orders two version strings. It returns a negative value when
// a < b, zero when they are equal and a positive value when a > b.
// Epochs compare numerically first, then pkgver segment-wise, then pkgrel
// numerically. The pkgrel is ignored when either side omits it.
func Compare(a, b string) int {
	pa, pb := Parse(a), Parse(b)
	if pa.Epoch != pb.Epoch {
		if pa.Epoch < pb.Epoch {
			return -1
		}
		return 1
	}
	if ret := compareSegments(pa.Ver, pb.Ver); ret != 0 {
		return ret
	}
	if pa.Rel == "" || pb.Rel == "" {
		return 0
	}
	return compareRel(pa.Rel, pb.Rel)
}

// Newer reports whether a compares strictly greater than b.
func Newer(a, b string) bool {
	return Compare(a, b) > 0
}

func compareRel(a, b string) int {
	ra, errA := strconv.Atoi(a)
	rb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return compareSegments(a, b)
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

// compareSegments walks both strings in alternating numeric and alphabetic
// segments, skipping separator runs. A numeric segment always beats an
// alphabetic one, and a trailing alphabetic remainder loses against an
// exhausted string (1.0a < 1.0).
func compareSegments(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		for i < len(a) && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) {
			j++
		}
		if i >= len(a) || j >= len(b) {
			break
		}

		numeric := isDigit(a[i])
		if numeric != isDigit(b[j]) {
			if numeric {
				return 1
			}
			return -1
		}

		segA, nextI := takeSegment(a, i, numeric)
		segB, nextJ := takeSegment(b, j, numeric)
		i, j = nextI, nextJ

		var ret int
		if numeric {
			ret = compareNumeric(segA, segB)
		} else {
			ret = compareString(segA, segB)
		}
		if ret != 0 {
			return ret
		}
	}

	if i >= len(a) && j >= len(b) {
		return 0
	}
	if (i >= len(a) && !remainderIsAlpha(b, j)) || remainderIsAlpha(a, i) {
		return -1
	}
	return 1
}

func takeSegment(s string, start int, numeric bool) (string, int) {
	end := start
	for end < len(s) && isDigit(s[end]) == numeric && isAlnum(s[end]) {
		end++
	}
	return s[start:end], end
}

func compareNumeric(a, b string) int {
	a = trimLeadingZeros(a)
	b = trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return compareString(a, b)
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

func remainderIsAlpha(s string, i int) bool {
	return i < len(s) && isAlpha(s[i])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
