package upstream

import (
	"context"
	"net/http"
)

type walletResult struct {
	envelope
	Wallet Wallet `json:"wallet"`
}

type transactionsResult struct {
	envelope
	Transactions []Transaction `json:"transactions"`
	Meta         PageMeta      `json:"meta"`
}

// Wallet is read-only from the storefront; settlement happens upstream.
func (c *Client) Wallet(ctx context.Context, token string) (*Wallet, error) {
	var out walletResult
	if err := c.do(ctx, http.MethodGet, "/api/business/wallet", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Wallet, nil
}

func (c *Client) WalletTransactions(ctx context.Context, token string, page, size int) ([]Transaction, *PageMeta, error) {
	q := ProductQuery{Page: page, Size: size}
	var out transactionsResult
	if err := c.do(ctx, http.MethodGet, "/api/business/wallet/transactions"+q.encode(), token, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Transactions, &out.Meta, nil
}
