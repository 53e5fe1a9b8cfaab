package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
)

func stateOn(screen models.Screen) State {
	s := NewState()
	s.Screen = screen
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, models.ScreenCart, s.Screen)
	assert.Equal(t, models.PaymentMethodCard, s.Method)
	assert.Equal(t, models.BankUnselected, s.Netbanking.Bank)
	assert.True(t, s.Errors.Valid())
}

func TestReduce_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       models.Screen
		event      Event
		wantScreen models.Screen
		wantErr    bool
	}{
		{"proceed from cart", models.ScreenCart, CheckoutRequested{}, models.ScreenPaymentForm, false},
		{"proceed twice", models.ScreenPaymentForm, CheckoutRequested{}, models.ScreenPaymentForm, true},
		{"proceed after success", models.ScreenSuccess, CheckoutRequested{}, models.ScreenSuccess, true},
		{"select method on cart", models.ScreenCart, MethodSelected{Method: models.PaymentMethodNetbanking}, models.ScreenCart, true},
		{"edit card while processing", models.ScreenProcessing, CardEdited{}, models.ScreenProcessing, true},
		{"edit netbanking on success", models.ScreenSuccess, NetbankingEdited{}, models.ScreenSuccess, true},
		{"valid submit", models.ScreenPaymentForm, PaymentSubmitted{Errors: models.ValidationErrors{}}, models.ScreenProcessing, false},
		{"submit from cart", models.ScreenCart, PaymentSubmitted{}, models.ScreenCart, true},
		{"submit while processing", models.ScreenProcessing, PaymentSubmitted{}, models.ScreenProcessing, true},
		{"timer fires", models.ScreenProcessing, ProcessingElapsed{}, models.ScreenSuccess, false},
		{"timer on payment form", models.ScreenPaymentForm, ProcessingElapsed{}, models.ScreenPaymentForm, true},
		{"download on success", models.ScreenSuccess, ReceiptDownloaded{}, models.ScreenSuccess, false},
		{"download while processing", models.ScreenProcessing, ReceiptDownloaded{}, models.ScreenProcessing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(stateOn(tt.from), tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantScreen, got.Screen)
		})
	}
}

func TestReduce_InvalidSubmitKeepsErrors(t *testing.T) {
	errs := models.ValidationErrors{models.FieldCVV: "Invalid CVV"}
	fields := models.PaymentFields{Card: models.CardFields{CVV: "1"}}

	got, err := Reduce(stateOn(models.ScreenPaymentForm), PaymentSubmitted{
		Method: models.PaymentMethodCard,
		Fields: fields,
		Errors: errs,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ScreenPaymentForm, got.Screen)
	assert.Equal(t, errs, got.Errors)
	assert.Equal(t, "1", got.Card.CVV)

	errs[models.FieldExpiry] = "Invalid expiry"
	assert.Len(t, got.Errors, 1, "state must not alias the event's map")
}

func TestReduce_MethodSwitchClearsErrors(t *testing.T) {
	for _, m := range []models.PaymentMethod{models.PaymentMethodCard, models.PaymentMethodNetbanking} {
		t.Run(m.String(), func(t *testing.T) {
			s := stateOn(models.ScreenPaymentForm)
			s.Errors = models.ValidationErrors{
				models.FieldCardNumber: "Invalid card number",
				models.FieldNameOnCard: "Required",
			}

			got, err := Reduce(s, MethodSelected{Method: m})
			require.NoError(t, err)
			assert.Equal(t, m, got.Method)
			assert.Empty(t, got.Errors)
			assert.Len(t, s.Errors, 2, "input state must be untouched")
		})
	}
}

func TestReduce_ValidSubmitClearsStaleErrors(t *testing.T) {
	s := stateOn(models.ScreenPaymentForm)
	s.Errors = models.ValidationErrors{models.FieldCVV: "Invalid CVV"}

	got, err := Reduce(s, PaymentSubmitted{Errors: models.ValidationErrors{}})
	require.NoError(t, err)
	assert.Equal(t, models.ScreenProcessing, got.Screen)
	assert.Empty(t, got.Errors)
}

type bogusEvent struct{}

func (bogusEvent) Name() string { return "bogus" }

func TestReduce_UnknownEvent(t *testing.T) {
	s := NewState()
	got, err := Reduce(s, bogusEvent{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, got)
}

func TestReduce_RejectsUnknownMethod(t *testing.T) {
	s := stateOn(models.ScreenPaymentForm)
	unknown := models.PaymentMethod(7)

	got, err := Reduce(s, MethodSelected{Method: unknown})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, got)

	got, err = Reduce(s, PaymentSubmitted{Method: unknown, Errors: models.ValidationErrors{}})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ScreenPaymentForm, got.Screen)
	assert.Equal(t, models.PaymentMethodCard, got.Method)
}
