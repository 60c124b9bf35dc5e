// Package filename validates capture filenames and derives the capture
// timestamp encoded in them. A name that fails Valid is never passed
// to Timestamp.
package filename

import (
	"regexp"
	"strconv"
	"time"
)

// Capture names carry a date (year starting "20") and a 6-digit clock,
// e.g. IMG_20240615_143007.png, with optional -/_ separators inside
// the date and an optional separator before the clock.
var (
	nameExpr  = regexp.MustCompile(`(?i)(20\d{2}[-_]?\d{2}[-_]?\d{2})[ _-]?\d{6}\.(png|jpg|jpeg)$`)
	stampExpr = regexp.MustCompile(`(20\d{2})[-_]?(\d{2})[-_]?(\d{2})[ _-]?(\d{2})(\d{2})(\d{2})`)
)

// Valid reports whether name has the accepted capture-filename shape.
func Valid(name string) bool {
	return nameExpr.MatchString(name)
}

// Timestamp extracts the capture moment encoded in name. The second
// return is false when the digit groups do not form a real calendar
// date and clock (month 13, minute 60). Semantic checks beyond
// calendar validity (e.g. future dates) are out of scope.
func Timestamp(name string) (time.Time, bool) {
	m := stampExpr.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	parts := make([]int, 6)
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}

	ts := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)

	// time.Date normalizes out-of-range components instead of failing,
	// so reject anything that did not round-trip.
	if ts.Year() != parts[0] || ts.Month() != time.Month(parts[1]) || ts.Day() != parts[2] ||
		ts.Hour() != parts[3] || ts.Minute() != parts[4] || ts.Second() != parts[5] {
		return time.Time{}, false
	}

	return ts, true
}
