package matching

import (
	"strconv"
	"strings"
)

// NormalizeAmount turns a display amount string into an integer by keeping
// digits only: "₹1,80,000" -> 180000. Empty or digit-free input normalizes to
// 0. The function is idempotent on already-normalized values.
func NormalizeAmount(amount string) int64 {
	var b strings.Builder
	for _, r := range amount {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}

	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		// Digit run too long for int64. Treat like unparseable input.
		return 0
	}
	return n
}
