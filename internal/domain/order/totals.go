// Package order computes order totals and runs the simulated checkout.
package order

import (
	"github.com/example/storefront/internal/money"
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(75)
	FlatShipping          = decimal.RequireFromString("9.99")
	TaxRate               = decimal.RequireFromString("0.085")
)

// Total is the price breakdown shown at checkout. Tax is never rounded here;
// rounding happens only when a value is formatted for display.
type Total struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// FreeShipping reports whether the subtotal qualified for free shipping.
func (t Total) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// Formatted renders every component as en-US currency.
func (t Total) Formatted() FormattedTotal {
	return FormattedTotal{
		Subtotal: money.Format(t.Subtotal),
		Shipping: money.Format(t.Shipping),
		Tax:      money.Format(t.Tax),
		Total:    money.Format(t.Total),
	}
}

type FormattedTotal struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// CalculateShipping is free from the threshold upwards, flat below it.
func CalculateShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShipping
}

func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

func CalculateOrderTotal(subtotal money.Cents) Total {
	sub := subtotal.Decimal()
	shipping := CalculateShipping(sub)
	tax := CalculateTax(sub)
	return Total{
		Subtotal: sub,
		Shipping: shipping,
		Tax:      tax,
		Total:    sub.Add(shipping).Add(tax),
	}
}

// RemainingForFreeShipping is how much more the customer must spend to get
// free shipping, or zero when they already qualify.
func RemainingForFreeShipping(subtotal money.Cents) decimal.Decimal {
	remaining := FreeShippingThreshold.Sub(subtotal.Decimal())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
