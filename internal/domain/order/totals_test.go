package order

import (
	"testing"

	"github.com/example/storefront/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

// ============================================
// Order Total Tests
// ============================================

func TestCalculateOrderTotal_EmptyCart(t *testing.T) {
	total := CalculateOrderTotal(0)

	assertDecimal(t, "0", total.Subtotal)
	assertDecimal(t, "9.99", total.Shipping)
	assertDecimal(t, "0", total.Tax)
	assertDecimal(t, "9.99", total.Total)
	assert.False(t, total.FreeShipping())
}

func TestCalculateOrderTotal_AtThreshold(t *testing.T) {
	total := CalculateOrderTotal(7500)

	assertDecimal(t, "75", total.Subtotal)
	assertDecimal(t, "0", total.Shipping)
	assertDecimal(t, "6.375", total.Tax)
	assertDecimal(t, "81.375", total.Total)
	assert.True(t, total.FreeShipping())
}

func TestCalculateShipping(t *testing.T) {
	tests := []struct {
		subtotal string
		expected string
	}{
		{"0", "9.99"},
		{"74.99", "9.99"},
		{"75", "0"},
		{"75.01", "0"},
		{"300", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			assertDecimal(t, tt.expected, CalculateShipping(dec(tt.subtotal)))
		})
	}
}

func TestCalculateTax(t *testing.T) {
	assertDecimal(t, "2.38", CalculateTax(dec("28")))
	assertDecimal(t, "0.849915", CalculateTax(dec("9.999")))
	assertDecimal(t, "0", CalculateTax(decimal.Zero))
}

func TestCalculateOrderTotal_TotalIsSumOfParts(t *testing.T) {
	for _, sub := range []money.Cents{0, 1, 2800, 7499, 7500, 12345} {
		total := CalculateOrderTotal(sub)
		assert.True(t, total.Subtotal.Add(total.Shipping).Add(total.Tax).Equal(total.Total))
		assert.True(t, total.Shipping.IsZero() || total.Shipping.Equal(FlatShipping))
	}
}

func TestTotal_Formatted(t *testing.T) {
	f := CalculateOrderTotal(7500).Formatted()

	assert.Equal(t, FormattedTotal{
		Subtotal: "$75.00",
		Shipping: "$0.00",
		Tax:      "$6.38",
		Total:    "$81.38",
	}, f)
}

func TestRemainingForFreeShipping(t *testing.T) {
	assertDecimal(t, "47", RemainingForFreeShipping(2800))
	assertDecimal(t, "0", RemainingForFreeShipping(7500))
	assertDecimal(t, "0", RemainingForFreeShipping(9000))
}
