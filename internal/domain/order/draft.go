package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/pricing"
	"github.com/evermart/shop-api/internal/domain/product"
)

// Draft is an order under construction: the header and address rows plus the
// lines and running totals accumulated while items are processed. Lines are
// priced in the order they are added, so accumulation is deterministic.
type Draft struct {
	header  Order
	address Address
	items   []Item

	finalPrice    decimal.Decimal
	totalDiscount decimal.Decimal
}

// NewDraft creates a draft with a fresh order ID, the header fields from the
// request, and zero totals.
func NewDraft(userID string, req PlaceOrderRequest) *Draft {
	orderID := uuid.New().String()
	return &Draft{
		header: Order{
			ID:          orderID,
			UserID:      userID,
			OrderOwner:  req.OrderOwner,
			PhoneNumber: req.PhoneNumber,
			CardNumber:  req.CardNumber,
			Status:      StatusProcessed,
		},
		address: Address{
			ID:      uuid.New().String(),
			OrderID: orderID,
			Street:  req.Address.Street,
			City:    req.Address.City,
			Pin:     req.Address.Pin,
			State:   req.Address.State,
		},
		finalPrice:    decimal.Zero,
		totalDiscount: decimal.Zero,
	}
}

// AddLine appends a line for the given product and quantity, snapshotting the
// unit price, and folds the discounted line into the running totals. It
// returns the new line for persistence.
func (d *Draft) AddLine(p product.Product, quantity int) *Item {
	lineTotal := pricing.LineTotal(p.Price, quantity)
	item := Item{
		ID:         uuid.New().String(),
		OrderID:    d.header.ID,
		ProductID:  p.ID,
		Quantity:   quantity,
		UnitPrice:  p.Price,
		TotalPrice: lineTotal,
	}
	d.items = append(d.items, item)

	discounted := pricing.ApplyDiscount(lineTotal, p.DiscountRate)
	d.totalDiscount = d.totalDiscount.Add(lineTotal.Sub(discounted))
	d.finalPrice = d.finalPrice.Add(discounted)

	return &d.items[len(d.items)-1]
}

// Header returns the order header row.
func (d *Draft) Header() *Order { return &d.header }

// ShippingAddress returns the address row.
func (d *Draft) ShippingAddress() *Address { return &d.address }

// FinalPrice returns the exact sum of discounted line totals.
func (d *Draft) FinalPrice() decimal.Decimal { return d.finalPrice }

// TotalDiscount returns the exact sum of per-line discount amounts.
func (d *Draft) TotalDiscount() decimal.Decimal { return d.totalDiscount }

// TruncatedPrice is the whole-unit amount compared against the buyer's
// balance: the final price rounded to two decimals, then truncated to its
// integer part. Fractional currency is discarded, not rounded. The debit
// itself still uses the exact FinalPrice.
func (d *Draft) TruncatedPrice() decimal.Decimal {
	return d.finalPrice.Round(2).Truncate(0)
}
