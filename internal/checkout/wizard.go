package checkout

import (
	"errors"
	"fmt"

	"github.com/pasalko/storefront/internal/upstream"
)

type Step int

const (
	StepAddress Step = 1
	StepPayment Step = 2
	StepReview  Step = 3
)

var (
	ErrNoAddress      = errors.New("no address selected")
	ErrNoPayment      = errors.New("no payment method selected")
	ErrNotAtReview    = errors.New("not at review step")
	ErrUnknownPayment = errors.New("unknown payment method")
)

// Wizard is the three-step checkout state: Address -> Payment -> Review.
// Transitions are manual; selections default so the forward move is
// effectively always allowed once an address exists.
type Wizard struct {
	Step            Step               `json:"step"`
	Addresses       []upstream.Address `json:"addresses"`
	SelectedAddress int                `json:"selected_address"`
	PaymentMethod   string             `json:"payment_method"`
}

func NewWizard() *Wizard {
	return &Wizard{
		Step:          StepAddress,
		PaymentMethod: upstream.PaymentCOD,
	}
}

// AddAddress appends and selects the new entry. Addresses live only in
// wizard state; they persist nowhere until an order is submitted.
func (w *Wizard) AddAddress(a upstream.Address) {
	w.Addresses = append(w.Addresses, a)
	w.SelectedAddress = len(w.Addresses) - 1
}

func (w *Wizard) SelectAddress(i int) error {
	if i < 0 || i >= len(w.Addresses) {
		return fmt.Errorf("address index %d out of range", i)
	}
	w.SelectedAddress = i
	return nil
}

func (w *Wizard) SelectPayment(method string) error {
	switch method {
	case upstream.PaymentCOD, upstream.PaymentKhalti, upstream.PaymentCard, upstream.PaymentEsewa:
		w.PaymentMethod = method
		return nil
	default:
		return ErrUnknownPayment
	}
}

func (w *Wizard) Continue() error {
	switch w.Step {
	case StepAddress:
		if len(w.Addresses) == 0 {
			return ErrNoAddress
		}
		w.Step = StepPayment
	case StepPayment:
		if w.PaymentMethod == "" {
			return ErrNoPayment
		}
		w.Step = StepReview
	}
	return nil
}

func (w *Wizard) Back() {
	if w.Step > StepAddress {
		w.Step--
	}
}

func (w *Wizard) Address() (upstream.Address, error) {
	if len(w.Addresses) == 0 || w.SelectedAddress < 0 || w.SelectedAddress >= len(w.Addresses) {
		return upstream.Address{}, ErrNoAddress
	}
	return w.Addresses[w.SelectedAddress], nil
}
