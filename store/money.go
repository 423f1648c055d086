package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in cents. Its text form is a decimal number with at
// most two fraction digits, like "12.5" or "-0.99".
type Money int64

// ParseMoney parses the text form of an amount.
func ParseMoney(s string) (Money, error) {
	text := strings.TrimSpace(s)

	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")

	units, cents, _ := strings.Cut(text, ".")
	if units == "" || strings.ContainsAny(units[:1], "+-") || len(cents) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var fraction int64
	if cents != "" {
		if fraction, err = strconv.ParseInt((cents + "0")[:2], 10, 64); err != nil || fraction < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	amount := Money(whole*100 + fraction)
	if negative {
		amount = -amount
	}

	return amount, nil
}

// String formats m with two fraction digits.
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign, m = "-", -m
	}

	return fmt.Sprintf("%s%d.%02d", sign, int64(m)/100, int64(m)%100)
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
