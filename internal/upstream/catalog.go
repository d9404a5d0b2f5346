package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ProductPage struct {
	envelope
	Products []Product `json:"products"`
	Meta     PageMeta  `json:"meta"`
}

type ProductQuery struct {
	Page     int
	Size     int
	Category string
	Search   string
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var out ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products"+q.encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type productResult struct {
	envelope
	Product Product `json:"product"`
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var out productResult
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

type categoriesResult struct {
	envelope
	Categories []Category `json:"categories"`
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out categoriesResult
	if err := c.do(ctx, http.MethodGet, "/api/categories", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}
