package domain

import (
	"strings"
	"time"
	"unicode"
)

// UnknownPlate is recorded when detection yields no readable plate.
// The capture is still consumed: a ledger row is written and the
// candidate is never retried.
const UnknownPlate = "UNKNOWN"

// Candidate is a remote image file reference under consideration.
// Immutable once listed; the orchestrator never mutates it.
type Candidate struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Detection is the outcome of running the vision pipeline on one image.
// Either Found is true and Plate holds normalized text, or Found is
// false and Plate is empty. Never partially filled.
type Detection struct {
	Plate string
	Found bool
}

// NoDetection is the explicit empty outcome.
func NoDetection() Detection {
	return Detection{}
}

// Detected wraps raw recognizer output into a Detection, normalizing
// it first. Empty text after normalization collapses to NoDetection.
func Detected(text string) Detection {
	plate := NormalizePlate(text)
	if plate == "" {
		return NoDetection()
	}
	return Detection{Plate: plate, Found: true}
}

// NormalizePlate upper-cases plate text and strips all whitespace.
func NormalizePlate(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, text)
}

// Device is a registered capture device matched by plate.
type Device struct {
	ID    int64
	Plate string
	Label string
}

// Capture is a ledger row for one processed candidate. SourceFile is
// the sole deduplication key; rows are inserted exactly once and never
// updated or deleted by the pipeline.
type Capture struct {
	Plate      string
	ViewURL    string
	CapturedAt time.Time
	SourceFile string
	DeviceID   *int64
}
