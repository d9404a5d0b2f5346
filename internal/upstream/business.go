package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type businessResult struct {
	envelope
	Business Business `json:"business"`
}

func (c *Client) BusinessProfile(ctx context.Context, token string) (*Business, error) {
	var out businessResult
	if err := c.do(ctx, http.MethodGet, "/api/business/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Business, nil
}

type BusinessProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (c *Client) UpdateBusinessProfile(ctx context.Context, token string, upd BusinessProfileUpdate) (*Business, error) {
	var out businessResult
	if err := c.do(ctx, http.MethodPut, "/api/business/profile", token, upd, &out); err != nil {
		return nil, err
	}
	return &out.Business, nil
}

// UploadDocument registers the verification document reference using
// the short-lived temp token issued at business registration.
func (c *Client) UploadDocument(ctx context.Context, tempToken, documentURL string) error {
	if tempToken == "" {
		return fmt.Errorf("%w: temp token required", ErrValidation)
	}
	if documentURL == "" {
		return fmt.Errorf("%w: document required", ErrValidation)
	}
	body := map[string]string{"document_url": documentURL}
	return c.do(ctx, http.MethodPost, "/api/business/documents", tempToken, body, nil)
}

type customersResult struct {
	envelope
	Customers []User   `json:"customers"`
	Meta      PageMeta `json:"meta"`
}

func (c *Client) BusinessCustomers(ctx context.Context, token string, page, size int) ([]User, *PageMeta, error) {
	q := ProductQuery{Page: page, Size: size}
	var out customersResult
	if err := c.do(ctx, http.MethodGet, "/api/business/customers"+q.encode(), token, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Customers, &out.Meta, nil
}

// Seller product management.

type ProductData struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	CategoryID  string  `json:"category_id"`
}

func (c *Client) BusinessProducts(ctx context.Context, token string, page, size int) (*ProductPage, error) {
	q := ProductQuery{Page: page, Size: size}
	var out ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/business/products"+q.encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, data ProductData) (*Product, error) {
	if data.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if data.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	var out productResult
	if err := c.do(ctx, http.MethodPost, "/api/business/products", token, data, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, data ProductData) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}
	if data.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	var out productResult
	if err := c.do(ctx, http.MethodPut, "/api/business/products/"+url.PathEscape(id), token, data, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id required", ErrValidation)
	}
	return c.do(ctx, http.MethodDelete, "/api/business/products/"+url.PathEscape(id), token, nil, nil)
}
