package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid currency amount")

var printer = message.NewPrinter(language.AmericanEnglish)

// Cents is a currency amount in minor units (USD cents).
type Cents int64

// FromDecimal converts a dollar amount to cents, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Dollars converts a float dollar literal (fixtures, tests) to cents.
func Dollars(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse accepts "48", "48.5", "48.50" or "$1,048.50".
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) Mul(n int) Cents {
	return c * Cents(n)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a dollar number, e.g. 48.00.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a dollar number or a numeric string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	*c = FromDecimal(d)
	return nil
}

// Format renders an amount as en-US currency: $1,234.56.
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0).IntPart()
	frac := d.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole), frac)
}

func FormatCents(c Cents) string {
	return Format(c.Decimal())
}
