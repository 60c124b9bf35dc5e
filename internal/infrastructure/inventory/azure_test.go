package inventory

import "testing"

func TestIsImage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		contentType string
		want        bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"IMAGE/PNG", true},
		{"application/octet-stream", false},
		{"text/html", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := isImage(tc.contentType); got != tc.want {
			t.Errorf("isImage(%q) = %v, want %v", tc.contentType, got, tc.want)
		}
	}
}
