package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type pendingBusinessesResult struct {
	envelope
	Businesses []Business `json:"businesses"`
	Meta       PageMeta   `json:"meta"`
}

func (c *Client) PendingBusinesses(ctx context.Context, token string, page, size int) ([]Business, *PageMeta, error) {
	q := ProductQuery{Page: page, Size: size}
	var out pendingBusinessesResult
	if err := c.do(ctx, http.MethodGet, "/api/admin/businesses/pending"+q.encode(), token, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Businesses, &out.Meta, nil
}

func (c *Client) ApproveBusiness(ctx context.Context, token, id string) (*Business, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: business id required", ErrValidation)
	}
	var out businessResult
	if err := c.do(ctx, http.MethodPost, "/api/admin/businesses/"+url.PathEscape(id)+"/approve", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Business, nil
}

func (c *Client) RejectBusiness(ctx context.Context, token, id, reason string) (*Business, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: business id required", ErrValidation)
	}
	body := map[string]string{"reason": reason}
	var out businessResult
	if err := c.do(ctx, http.MethodPost, "/api/admin/businesses/"+url.PathEscape(id)+"/reject", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Business, nil
}
