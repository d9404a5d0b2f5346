package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type InitiatePaymentData struct {
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	ReturnURL string  `json:"returnUrl"`
}

type paymentResult struct {
	envelope
	Payment Payment `json:"payment"`
}

// InitiateKhalti creates a payment record upstream and returns the
// external URL the browser must be sent to.
func (c *Client) InitiateKhalti(ctx context.Context, token string, data InitiatePaymentData) (*Payment, error) {
	if data.OrderID == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}
	if data.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	var out paymentResult
	if err := c.do(ctx, http.MethodPost, "/api/payments/khalti/initiate", token, data, &out); err != nil {
		return nil, err
	}
	return &out.Payment, nil
}

// VerifyKhalti resolves the payment the provider redirected back from.
func (c *Client) VerifyKhalti(ctx context.Context, token, pidx string) (*Payment, error) {
	if pidx == "" {
		return nil, fmt.Errorf("%w: pidx required", ErrValidation)
	}
	body := map[string]string{"pidx": pidx}
	var out paymentResult
	if err := c.do(ctx, http.MethodPost, "/api/payments/khalti/verify", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Payment, nil
}
