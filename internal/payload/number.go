package payload

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatFixed renders v with exactly precision fractional digits.
// Ties round half away from zero on the shortest decimal form of v, so 64.25 -> "64.3".
func formatFixed(v float64, precision int32) (string, error) {
	if !isFinite(v) {
		return "", fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return decimal.NewFromFloat(v).StringFixed(precision), nil
}

// jsonNumber always carries a fractional part on the wire: 66 -> 66.0.
type jsonNumber float64

func (n jsonNumber) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if !isFinite(v) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	s := decimal.NewFromFloat(v).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}
