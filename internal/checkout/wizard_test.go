package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasalko/storefront/internal/upstream"
)

func TestWizard_Defaults(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	assert.Equal(t, StepAddress, w.Step)
	assert.Equal(t, upstream.PaymentCOD, w.PaymentMethod)
	assert.Empty(t, w.Addresses)
}

func TestWizard_ContinueRequiresAddress(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	err := w.Continue()
	require.ErrorIs(t, err, ErrNoAddress)
	assert.Equal(t, StepAddress, w.Step)
}

func TestWizard_FullForwardAndBack(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	w.AddAddress(upstream.Address{FullName: "Sita Rai", Phone: "9800000000", AddressLine1: "Baneshwor", City: "Kathmandu"})

	require.NoError(t, w.Continue())
	assert.Equal(t, StepPayment, w.Step)

	require.NoError(t, w.Continue())
	assert.Equal(t, StepReview, w.Step)

	// Continue past review stays put.
	require.NoError(t, w.Continue())
	assert.Equal(t, StepReview, w.Step)

	w.Back()
	assert.Equal(t, StepPayment, w.Step)
	w.Back()
	w.Back()
	assert.Equal(t, StepAddress, w.Step)
}

func TestWizard_AddAddressSelectsNewest(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	w.AddAddress(upstream.Address{FullName: "a"})
	w.AddAddress(upstream.Address{FullName: "b"})
	assert.Equal(t, 1, w.SelectedAddress)

	require.NoError(t, w.SelectAddress(0))
	addr, err := w.Address()
	require.NoError(t, err)
	assert.Equal(t, "a", addr.FullName)

	require.Error(t, w.SelectAddress(5))
	require.Error(t, w.SelectAddress(-1))
}

func TestWizard_SelectPayment(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	for _, m := range []string{upstream.PaymentCOD, upstream.PaymentKhalti, upstream.PaymentCard, upstream.PaymentEsewa} {
		require.NoError(t, w.SelectPayment(m))
		assert.Equal(t, m, w.PaymentMethod)
	}

	err := w.SelectPayment("cheque")
	require.ErrorIs(t, err, ErrUnknownPayment)
	assert.Equal(t, upstream.PaymentEsewa, w.PaymentMethod)
}
