package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("money: invalid amount")

// ParseMajor converts a display string such as "$49.99" into minor units.
// It is a transport adapter only; no pricing math happens on decimals.
func ParseMajor(s string, currency string) (Money, error) {

	raw := strings.TrimSpace(s)
	for _, symbol := range symbols {
		raw = strings.TrimPrefix(raw, symbol)
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	if raw == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}

	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}

	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, s)
	}

	return New(minor.IntPart(), currency), nil
}

// FormatMajor renders minor units as a plain major-unit decimal, e.g. 4999 -> "49.99".
func FormatMajor(m Money) string {
	return decimal.New(m.Amount, -2).StringFixed(2)
}

// ParsePercent accepts a whole-number percentage such as "10" or "10%".
func ParsePercent(s string) (int64, error) {

	raw := strings.TrimSuffix(strings.TrimSpace(s), "%")

	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}

	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q is not a whole percentage", ErrInvalidAmount, s)
	}

	return d.IntPart(), nil
}
