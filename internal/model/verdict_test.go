package model

import "testing"

func TestVerdictFromCode(t *testing.T) {
	cases := []struct {
		code uint8
		want string
	}{
		{0, ""},
		{1, VerdictClientWin},
		{2, VerdictFreelancerWin},
		{3, VerdictPartialRefund},
		{4, ""},
		{255, ""},
	}
	for _, tc := range cases {
		if got := VerdictFromCode(tc.code); got != tc.want {
			t.Fatalf("code %d: got %q, want %q", tc.code, got, tc.want)
		}
	}
}
