package domain

import "testing"

func TestParseContradictionType(t *testing.T) {
	cases := []struct {
		in   string
		want ContradictionType
	}{
		{"numerical", ContradictionNumerical},
		{"timeline", ContradictionTimeline},
		{"scope", ContradictionScope},
		{"budget_discrepancy", ContradictionScope},
		{"NUMERICAL", ContradictionScope},
		{"", ContradictionScope},
	}
	for _, tc := range cases {
		if got := ParseContradictionType(tc.in); got != tc.want {
			t.Errorf("ParseContradictionType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidRFPStatus(t *testing.T) {
	for _, s := range []string{"new", "processing", "extracted", "reviewed", "go", "no_go"} {
		if !ValidRFPStatus(s) {
			t.Errorf("ValidRFPStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "pending", "GO"} {
		if ValidRFPStatus(s) {
			t.Errorf("ValidRFPStatus(%q) = true", s)
		}
	}
}
