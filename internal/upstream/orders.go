package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type CreateOrderData struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Notes           string      `json:"notes,omitempty"`
}

type orderResult struct {
	envelope
	Order Order `json:"order"`
}

type ordersResult struct {
	envelope
	Orders []Order  `json:"orders"`
	Meta   PageMeta `json:"meta"`
}

func (c *Client) CreateOrder(ctx context.Context, token string, data CreateOrderData) (*Order, error) {
	if len(data.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if data.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method required", ErrValidation)
	}
	var out orderResult
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, data, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) Orders(ctx context.Context, token string, page, size int) ([]Order, *PageMeta, error) {
	q := ProductQuery{Page: page, Size: size}
	var out ordersResult
	if err := c.do(ctx, http.MethodGet, "/api/orders"+q.encode(), token, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Orders, &out.Meta, nil
}

func (c *Client) Order(ctx context.Context, token, id string) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}
	var out orderResult
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) CancelOrder(ctx context.Context, token, id string) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}
	var out orderResult
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(id)+"/cancel", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// Seller side.

func (c *Client) BusinessOrders(ctx context.Context, token string, page, size int) ([]Order, *PageMeta, error) {
	q := ProductQuery{Page: page, Size: size}
	var out ordersResult
	if err := c.do(ctx, http.MethodGet, "/api/business/orders"+q.encode(), token, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Orders, &out.Meta, nil
}

type OrderStatusUpdate struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// UpdateOrderStatus submits whatever transition the seller picked; the
// backend is the one that rejects illegal moves. A tracking number
// rides along as a side-channel update and forces the shipped status.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, upd OrderStatusUpdate) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}
	if upd.TrackingNumber != "" {
		upd.Status = OrderShipped
	}
	if upd.Status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}
	var out orderResult
	if err := c.do(ctx, http.MethodPatch, "/api/business/orders/"+url.PathEscape(id), token, upd, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}
