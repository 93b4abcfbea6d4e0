package session

import (
	"github.com/shopspring/decimal"

	"github.com/cantwait/lash-backend/internal/domain"
)

// ItbmsRate is the sales tax rate applied to taxed sessions.
var ItbmsRate = decimal.NewFromFloat(0.07)

// ComputeSubtotal derives the session subtotal from its service lines
// and discount fraction. Each line contributes its unit price; quantity
// is not factored in. A discount in (0,1) subtracts that fraction of
// the raw sum.
func ComputeSubtotal(services []domain.ServiceLine, discount decimal.Decimal) decimal.Decimal {
	if len(services) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, svc := range services {
		sum = sum.Add(svc.Price)
	}
	if discount.IsPositive() {
		return sum.Sub(sum.Mul(discount))
	}
	return sum
}

// ComputeTax returns the ITBMS amount for a subtotal, zero when the
// session is not taxed.
func ComputeTax(subtotal decimal.Decimal, isTax bool) decimal.Decimal {
	if !isTax {
		return decimal.Zero
	}
	return subtotal.Mul(ItbmsRate)
}

// ComputeTotal returns subtotal plus tax for taxed sessions and zero
// otherwise, so total is always a defined value.
func ComputeTotal(isTax bool, subtotal, itbms decimal.Decimal) decimal.Decimal {
	if !isTax {
		return decimal.Zero
	}
	return subtotal.Add(itbms)
}

// Recalculate assigns the derived financial fields onto the session.
func Recalculate(s *domain.Session) {
	s.Subtotal = ComputeSubtotal(s.Services, s.Discount)
	s.Itbms = ComputeTax(s.Subtotal, s.IsTax)
	s.Total = ComputeTotal(s.IsTax, s.Subtotal, s.Itbms)
}
