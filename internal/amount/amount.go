// Package amount parses user-entered money amounts.
package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for text that is not a plain decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts text like "12.50", "-40", "+3" or "12,50" to a decimal.
// Exponents, NaN, infinities and grouping separators are rejected.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	norm := strings.Replace(s, ",", ".", 1)
	if !isPlainDecimal(norm) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(norm, "+"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return d, nil
}

// isPlainDecimal accepts an optional sign, digits and at most one dot,
// with at least one digit.
func isPlainDecimal(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
