package checkout

import "github.com/pasalko/storefront/internal/upstream"

// TaxRate is the flat VAT applied on the subtotal.
const TaxRate = 0.13

// ShippingFee is currently free for every order.
const ShippingFee = 0.0

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ItemTotal applies the percent discount to one cart line.
func ItemTotal(price, discount float64, quantity int) float64 {
	return price * (1 - discount/100) * float64(quantity)
}

// Calculate derives the advisory totals from the cart. Pure function,
// recomputed on every use and never persisted: the order-create
// response is the authoritative total.
func Calculate(cart *upstream.Cart) Totals {
	var subtotal float64
	if cart != nil {
		for _, it := range cart.Items {
			subtotal += ItemTotal(it.Product.Price, it.Product.Discount, it.Quantity)
		}
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    subtotal + ShippingFee + tax,
	}
}

// OrderItems freezes the cart lines into order-item snapshots carrying
// product id, name, price, discount, quantity, business and image.
func OrderItems(cart *upstream.Cart) []upstream.OrderItem {
	if cart == nil {
		return nil
	}
	items := make([]upstream.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, upstream.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Discount:  it.Product.Discount,
			Quantity:  it.Quantity,
			Business:  it.Product.Business,
			Image:     it.Product.Image,
		})
	}
	return items
}
