// Package checkout walks an authenticated customer from cart to a
// single submitted order and branches on the chosen payment method.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/pasalko/storefront/internal/events"
	"github.com/pasalko/storefront/internal/logging"
	"github.com/pasalko/storefront/internal/upstream"
)

// ErrLoginRequired signals the session was rejected mid-checkout; the
// caller sends the user to login with a redirect hint instead of
// showing an error.
var ErrLoginRequired = errors.New("login required")

// InitiateError reports a payment initiation that failed after the
// order was already created. The order stays in the system unpaid with
// no compensating cancellation; callers surface the message only.
type InitiateError struct {
	Order *upstream.Order
	Err   error
}

func (e *InitiateError) Error() string {
	return fmt.Sprintf("payment initiation failed for order %s: %v", e.Order.ID, e.Err)
}

func (e *InitiateError) Unwrap() error { return e.Err }

type Orchestrator struct {
	API       *upstream.Client
	Events    *events.Publisher
	ReturnURL string
}

// Result tells the handler where to send the browser next.
type Result struct {
	Order       *upstream.Order
	RedirectURL string
	External    bool
}

// PlaceOrder submits exactly one order built from the in-memory cart
// and branches on the payment method.
func (o *Orchestrator) PlaceOrder(ctx context.Context, token, userID string, cart *upstream.Cart, addr upstream.Address, method string) (*Result, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", upstream.ErrValidation)
	}

	switch method {
	case upstream.PaymentCOD:
		return o.placeCOD(ctx, token, userID, cart, addr)
	case upstream.PaymentKhalti:
		return o.placeKhalti(ctx, token, userID, cart, addr)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPayment, method)
	}
}

func (o *Orchestrator) placeCOD(ctx context.Context, token, userID string, cart *upstream.Cart, addr upstream.Address) (*Result, error) {
	l := logging.FromContext(ctx).With("flow", "checkout.cod")

	order, err := o.API.CreateOrder(ctx, token, upstream.CreateOrderData{
		Items:           OrderItems(cart),
		ShippingAddress: addr,
		PaymentMethod:   upstream.PaymentCOD,
	})
	if err != nil {
		l.Warn("order_create_failed", "error", err)
		return nil, err
	}

	l.Info("order_created", "order_id", order.ID, "total", order.Total)
	o.publish(ctx, events.TypeOrderPlaced, userID, map[string]any{
		"order_id": order.ID,
		"method":   upstream.PaymentCOD,
		"total":    order.Total,
	})

	return &Result{Order: order, RedirectURL: "/auth/orders/" + order.ID}, nil
}

func (o *Orchestrator) placeKhalti(ctx context.Context, token, userID string, cart *upstream.Cart, addr upstream.Address) (*Result, error) {
	l := logging.FromContext(ctx).With("flow", "checkout.khalti")

	order, err := o.API.CreateOrder(ctx, token, upstream.CreateOrderData{
		Items:           OrderItems(cart),
		ShippingAddress: addr,
		PaymentMethod:   upstream.PaymentKhalti,
	})
	if err != nil {
		l.Warn("order_create_failed", "error", err)
		return nil, err
	}

	l.Info("order_created", "order_id", order.ID, "total", order.Total)
	o.publish(ctx, events.TypeOrderPlaced, userID, map[string]any{
		"order_id": order.ID,
		"method":   upstream.PaymentKhalti,
		"total":    order.Total,
	})

	totals := Calculate(cart)
	payment, err := o.API.InitiateKhalti(ctx, token, upstream.InitiatePaymentData{
		OrderID:   order.ID,
		Amount:    totals.Total,
		ReturnURL: o.ReturnURL,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			l.Warn("initiate_unauthorized", "order_id", order.ID)
			return nil, fmt.Errorf("%w: %v", ErrLoginRequired, err)
		}
		// The order was created and stays unpaid; there is no
		// compensating cancel (known gap, kept on purpose).
		l.Error("initiate_failed", "order_id", order.ID, "error", err)
		return nil, &InitiateError{Order: order, Err: err}
	}

	l.Info("payment_initiated", "order_id", order.ID, "pidx", payment.Pidx)
	o.publish(ctx, events.TypePaymentInitiated, userID, map[string]any{
		"order_id": order.ID,
		"pidx":     payment.Pidx,
		"amount":   payment.Amount,
	})

	return &Result{Order: order, RedirectURL: payment.PaymentURL, External: true}, nil
}

// Verify resolves the payment the provider redirected back from and
// returns the order it belongs to.
func (o *Orchestrator) Verify(ctx context.Context, token, userID, pidx string) (*upstream.Payment, error) {
	payment, err := o.API.VerifyKhalti(ctx, token, pidx)
	if err != nil {
		return nil, err
	}
	o.publish(ctx, events.TypePaymentVerified, userID, map[string]any{
		"order_id": payment.OrderID,
		"pidx":     payment.Pidx,
		"status":   payment.Status,
	})
	return payment, nil
}

// publish is fire-and-forget: analytics must never break checkout.
func (o *Orchestrator) publish(ctx context.Context, eventType, userID string, payload map[string]any) {
	if err := o.Events.Publish(ctx, eventType, userID, payload); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", eventType, "error", err)
	}
}
