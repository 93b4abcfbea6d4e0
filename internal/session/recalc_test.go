package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cantwait/lash-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price string, qty int) domain.ServiceLine {
	return domain.ServiceLine{Price: dec(price), Quantity: qty}
}

func TestComputeSubtotal_Empty(t *testing.T) {
	got := ComputeSubtotal(nil, decimal.Zero)
	assert.True(t, got.IsZero())

	got = ComputeSubtotal([]domain.ServiceLine{}, dec("0.5"))
	assert.True(t, got.IsZero())
}

func TestComputeSubtotal_SumsUnitPrices(t *testing.T) {
	services := []domain.ServiceLine{line("50", 1), line("30", 1)}
	got := ComputeSubtotal(services, decimal.Zero)
	assert.True(t, got.Equal(dec("80")), "got %s", got)
}

func TestComputeSubtotal_QuantityNotFactored(t *testing.T) {
	// Each line contributes its unit price once regardless of quantity.
	services := []domain.ServiceLine{line("25", 4)}
	got := ComputeSubtotal(services, decimal.Zero)
	assert.True(t, got.Equal(dec("25")), "got %s", got)
}

func TestComputeSubtotal_DiscountFraction(t *testing.T) {
	services := []domain.ServiceLine{line("100", 1)}
	got := ComputeSubtotal(services, dec("0.25"))
	assert.True(t, got.Equal(dec("75")), "got %s", got)
}

func TestComputeSubtotal_ZeroDiscountUntouched(t *testing.T) {
	services := []domain.ServiceLine{line("100", 1)}
	got := ComputeSubtotal(services, decimal.Zero)
	assert.True(t, got.Equal(dec("100")), "got %s", got)
}

func TestComputeTax(t *testing.T) {
	assert.True(t, ComputeTax(dec("100"), true).Equal(dec("7")))
	assert.True(t, ComputeTax(dec("100"), false).IsZero())
	assert.True(t, ComputeTax(decimal.Zero, true).IsZero())
}

func TestComputeTotal(t *testing.T) {
	assert.True(t, ComputeTotal(true, dec("93"), dec("7")).Equal(dec("100")))
	// Untaxed sessions carry a zero total; subtotal is the billable figure.
	assert.True(t, ComputeTotal(false, dec("93"), decimal.Zero).IsZero())
}

func TestRecalculate_EndToEnd(t *testing.T) {
	s := &domain.Session{
		Services: []domain.ServiceLine{line("50", 1), line("30", 2)},
		Discount: dec("0.1"),
		IsTax:    true,
	}
	Recalculate(s)

	assert.True(t, s.Subtotal.Equal(dec("72")), "subtotal %s", s.Subtotal)
	assert.True(t, s.Itbms.Equal(dec("5.04")), "itbms %s", s.Itbms)
	assert.True(t, s.Total.Equal(dec("77.04")), "total %s", s.Total)
}

func TestRecalculate_Untaxed(t *testing.T) {
	s := &domain.Session{
		Services: []domain.ServiceLine{line("50", 1)},
	}
	Recalculate(s)

	assert.True(t, s.Subtotal.Equal(dec("50")))
	assert.True(t, s.Itbms.IsZero())
	assert.True(t, s.Total.IsZero())
}
