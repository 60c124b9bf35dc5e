package filename

import (
	"testing"
	"time"
)

func TestValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want bool
	}{
		{"IMG_20240615_143007.png", true},
		{"IMG_20240615_143007.jpg", true},
		{"IMG_20240615_143007.JPEG", true},
		{"cam3-2024-06-15 143007.png", true},
		{"2024_06_15143007.jpeg", true},
		{"photo.png", false},
		{"IMG_2024.png", false},
		{"IMG_20240615_143007.gif", false},
		{"IMG_20240615_1430.png", false},
		{"IMG_19990615_143007.png", false},
		{"IMG_20240615_143007.png.bak", false},
	}

	for _, tc := range cases {
		if got := Valid(tc.name); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	ts, ok := Timestamp("IMG_20240615_143007.png")
	if !ok {
		t.Fatal("expected a timestamp")
	}

	want := time.Date(2024, time.June, 15, 14, 30, 7, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("Timestamp = %v, want %v", ts, want)
	}
}

func TestTimestampSeparators(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"A_20240101_090000.jpg",
		"A_2024-01-01 090000.jpg",
		"A_2024_01_01-090000.jpg",
		"20240101090000.png",
	} {
		ts, ok := Timestamp(name)
		if !ok {
			t.Errorf("Timestamp(%q): expected ok", name)
			continue
		}
		if !ts.Equal(want) {
			t.Errorf("Timestamp(%q) = %v, want %v", name, ts, want)
		}
	}
}

func TestTimestampRejectsImpossibleMoments(t *testing.T) {
	t.Parallel()

	cases := []string{
		"IMG_20241315_143007.png", // month 13
		"IMG_20240230_143007.png", // Feb 30
		"IMG_20240615_146007.png", // minute 60
		"IMG_20240615_253007.png", // hour 25
		"photo.png",
	}

	for _, name := range cases {
		if _, ok := Timestamp(name); ok {
			t.Errorf("Timestamp(%q): expected rejection", name)
		}
	}
}
