package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasalko/storefront/internal/ref"
	"github.com/pasalko/storefront/internal/upstream"
)

func twoItemCart() *upstream.Cart {
	return &upstream.Cart{
		ID: "cart-1",
		Items: []upstream.CartItem{
			{
				Product:  upstream.Product{ID: "p1", Name: "kettle", Price: 100, Discount: 0, Stock: 5, Image: "kettle.jpg", Business: ref.FromID[upstream.Business]("b1")},
				Quantity: 2,
			},
			{
				Product:  upstream.Product{ID: "p2", Name: "teapot", Price: 200, Discount: 10, Stock: 3, Image: "teapot.jpg", Business: ref.FromID[upstream.Business]("b2")},
				Quantity: 1,
			},
		},
		TotalItems: 3,
	}
}

func TestCalculate_TwoItemScenario(t *testing.T) {
	t.Parallel()

	totals := Calculate(twoItemCart())

	// 100*2 + 200*0.9*1 = 380; tax = 380*0.13 = 49.4
	assert.InDelta(t, 380.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, totals.Shipping, 1e-9)
	assert.InDelta(t, 49.4, totals.Tax, 1e-9)
	assert.InDelta(t, 429.4, totals.Total, 1e-9)
}

func TestCalculate_Idempotent(t *testing.T) {
	t.Parallel()

	cart := twoItemCart()
	first := Calculate(cart)
	second := Calculate(cart)

	assert.Equal(t, first, second)
}

func TestCalculate_EmptyAndNil(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Calculate(nil).Total)
	assert.Zero(t, Calculate(&upstream.Cart{}).Total)
}

func TestItemTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    float64
		discount float64
		qty      int
		want     float64
	}{
		{name: "no discount", price: 100, discount: 0, qty: 2, want: 200},
		{name: "ten percent off", price: 200, discount: 10, qty: 1, want: 180},
		{name: "full discount", price: 50, discount: 100, qty: 3, want: 0},
		{name: "zero quantity", price: 80, discount: 5, qty: 0, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ItemTotal(tt.price, tt.discount, tt.qty), 1e-9)
		})
	}
}

func TestOrderItems_SnapshotPreservesFields(t *testing.T) {
	t.Parallel()

	items := OrderItems(twoItemCart())
	require.Len(t, items, 2)

	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "kettle", items[0].Name)
	assert.InDelta(t, 100.0, items[0].Price, 1e-9)
	assert.InDelta(t, 0.0, items[0].Discount, 1e-9)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "b1", items[0].Business.IDOf())
	assert.Equal(t, "kettle.jpg", items[0].Image)

	assert.Equal(t, "p2", items[1].ProductID)
	assert.InDelta(t, 10.0, items[1].Discount, 1e-9)
	assert.Equal(t, "b2", items[1].Business.IDOf())
}
