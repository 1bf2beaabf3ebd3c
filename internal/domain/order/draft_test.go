package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermart/shop-api/internal/domain/product"
)

func TestDraft_AccumulatesInOrder(t *testing.T) {
	draft := NewDraft("u1", placementReq())

	widget := product.Product{ID: "p1", Name: "Widget", Price: d("20.00"), DiscountRate: d("1")}
	gadget := product.Product{ID: "p2", Name: "Gadget", Price: d("10.00"), DiscountRate: d("0.5")}

	first := draft.AddLine(widget, 2)
	second := draft.AddLine(gadget, 1)

	assert.True(t, d("40.00").Equal(first.TotalPrice))
	assert.True(t, d("10.00").Equal(second.TotalPrice))
	assert.True(t, d("45.00").Equal(draft.FinalPrice()))
	assert.True(t, d("5.00").Equal(draft.TotalDiscount()))

	require.NotEmpty(t, draft.Header().ID)
	assert.Equal(t, draft.Header().ID, first.OrderID)
	assert.Equal(t, draft.Header().ID, draft.ShippingAddress().OrderID)
}

func TestDraft_TruncatedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"whole amount unchanged", "40.00", "40"},
		{"fraction discarded", "100.50", "100"},
		{"rounded to cents first", "99.999", "100"},
		{"fraction below half", "149.49", "149"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := NewDraft("u1", placementReq())
			p := product.Product{ID: "p1", Name: "Widget", Price: d(tt.price), DiscountRate: d("1")}
			draft.AddLine(p, 1)
			assert.True(t, d(tt.want).Equal(draft.TruncatedPrice()), "got %s", draft.TruncatedPrice())
		})
	}
}
