package service

import "testing"

func TestEditRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Main Street Reconstruction", "Main Street Reconstruction", 1},
		{"case insensitive", "MAIN STREET", "main street", 1},
		{"whitespace trimmed", "  main street  ", "main street", 1},
		{"both empty", "", "", 0},
		{"one empty", "main street", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRatio(tc.a, tc.b); got != tc.want {
				t.Errorf("editRatio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestEditRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"road reconstruction", "bridge rehabilitation"},
		{"a", "completely different text"},
		{"Speed River crossing", "Speed River bridge"},
	}
	for _, p := range pairs {
		got := editRatio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("editRatio(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestEditRatioCloseStringsScoreHigher(t *testing.T) {
	close := editRatio("Main Street Reconstruction", "Main Street Reconstruction Phase 2")
	far := editRatio("Main Street Reconstruction", "Wastewater Treatment Plant Upgrade")
	if close <= far {
		t.Errorf("close pair scored %v, far pair %v", close, far)
	}
}
