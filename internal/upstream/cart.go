package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type cartResult struct {
	envelope
	Cart Cart `json:"cart"`
}

// Every cart mutation returns the entire refreshed cart; the view never
// does its own arithmetic on top of a previous copy.

func (c *Client) GetCart(ctx context.Context, token string) (*Cart, error) {
	var out cartResult
	if err := c.do(ctx, http.MethodGet, "/api/cart", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	body := map[string]any{"product_id": productID, "quantity": quantity}
	var out cartResult
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, quantity int) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	body := map[string]any{"quantity": quantity}
	var out cartResult
	if err := c.do(ctx, http.MethodPut, "/api/cart/items/"+url.PathEscape(productID), token, body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, token, productID string) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}
	var out cartResult
	if err := c.do(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(productID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) ClearCart(ctx context.Context, token string) (*Cart, error) {
	var out cartResult
	if err := c.do(ctx, http.MethodDelete, "/api/cart", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}
