package matching

import (
	"strconv"
	"testing"
)

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"₹1,80,000", 180000},
		{"180000", 180000},
		{"Rs. 50,000/-", 50000},
		{"$1,000", 1000},
		{"", 0},
		{"N/A", 0},
		{"varies", 0},
		{"0", 0},
	}

	for _, tc := range cases {
		if got := NormalizeAmount(tc.in); got != tc.want {
			t.Errorf("NormalizeAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	for _, n := range []int64{0, 1, 999, 180000, 123456789} {
		s := strconv.FormatInt(n, 10)
		if got := NormalizeAmount(s); got != n {
			t.Errorf("NormalizeAmount(%q) = %d, want %d", s, got, n)
		}
		// Normalizing the normalized form changes nothing.
		again := strconv.FormatInt(NormalizeAmount(s), 10)
		if got := NormalizeAmount(again); got != n {
			t.Errorf("second pass NormalizeAmount(%q) = %d, want %d", again, got, n)
		}
	}
}
