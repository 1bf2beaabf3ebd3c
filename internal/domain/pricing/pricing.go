// Package pricing holds the pure per-line price arithmetic used during order
// placement. It performs no I/O and keeps no state.
package pricing

import "github.com/shopspring/decimal"

// ApplyDiscount scales amount by rate. Rate is a multiplicative factor in
// (0, 1] where 1 means no discount: a line of 10.00 at rate 0.5 costs 5.00.
func ApplyDiscount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// DiscountAmount returns how much of amount is forgiven at the given rate,
// i.e. amount minus the discounted price.
func DiscountAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Sub(ApplyDiscount(amount, rate))
}

// LineTotal returns the pre-discount total for a line: quantity times the
// unit price snapshotted at purchase time.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
