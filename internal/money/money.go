package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNegativeResult   = errors.New("money: result would be negative")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

const DefaultCurrency = "USD"

// Money is an amount in minor currency units (cents for USD).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: normalizeCurrency(currency)}
}

func Zero(currency string) Money {
	return New(0, currency)
}

func (m Money) Add(o Money) (Money, error) {

	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}

	return New(m.Amount+o.Amount, m.Currency), nil
}

// Subtract fails with ErrNegativeResult instead of producing a negative amount.
func (m Money) Subtract(o Money) (Money, error) {

	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}

	if o.Amount > m.Amount {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m, o)
	}

	return New(m.Amount-o.Amount, m.Currency), nil
}

func (m Money) Multiply(qty int64) Money {
	return New(m.Amount*qty, m.Currency)
}

// PercentageOf returns percent% of m rounded half-up to the nearest minor unit.
func (m Money) PercentageOf(percent int64) Money {

	product := m.Amount * percent
	if product < 0 {
		// half-up on magnitude keeps the rounding symmetric
		return New(-((-product + 50) / 100), m.Currency)
	}

	return New((product+50)/100, m.Currency)
}

func (m Money) Cmp(o Money) int {
	switch {
	case m.Amount < o.Amount:
		return -1
	case m.Amount > o.Amount:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool {
	return m.Amount == o.Amount && normalizeCurrency(m.Currency) == normalizeCurrency(o.Currency)
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

func Min(a, b Money) Money {
	if b.Amount < a.Amount {
		return b
	}

	return a
}

// String renders the amount for display, e.g. "$90.00".
func (m Money) String() string {

	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	major, minor := amount/100, amount%100

	symbol, ok := symbols[normalizeCurrency(m.Currency)]
	if !ok {
		return fmt.Sprintf("%s%d.%02d %s", sign, major, minor, normalizeCurrency(m.Currency))
	}

	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, major, minor)
}

func (m Money) sameCurrency(o Money) error {
	if normalizeCurrency(m.Currency) != normalizeCurrency(o.Currency) {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}

	return nil
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return DefaultCurrency
	}

	return c
}
