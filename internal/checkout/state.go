package checkout

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
)

// ErrInvalidTransition is returned when an event is not allowed on the current screen
var ErrInvalidTransition = errors.New("invalid transition")

// State is everything the checkout flow knows. It is treated as a value:
// Reduce never mutates its input.
type State struct {
	Screen     models.Screen
	Method     models.PaymentMethod
	Card       models.CardFields
	Netbanking models.NetbankingFields
	Errors     models.ValidationErrors
}

// NewState returns the initial state: Cart screen, card selected, no bank chosen.
func NewState() State {
	return State{
		Screen:     models.ScreenCart,
		Method:     models.PaymentMethodCard,
		Netbanking: models.NetbankingFields{Bank: models.BankUnselected},
		Errors:     models.ValidationErrors{},
	}
}

func (s State) clone() State {
	s.Errors = s.Errors.Clone()
	if s.Errors == nil {
		s.Errors = models.ValidationErrors{}
	}
	return s
}

// Event is something that happened to the flow
type Event interface {
	Name() string
}

// CheckoutRequested moves the cart to the payment form
type CheckoutRequested struct{}

// MethodSelected switches between card and netbanking
type MethodSelected struct {
	Method models.PaymentMethod
}

// CardEdited replaces the card form with already formatted values
type CardEdited struct {
	Fields models.CardFields
}

// NetbankingEdited replaces the netbanking form
type NetbankingEdited struct {
	Fields models.NetbankingFields
}

// PaymentSubmitted carries the submitted form and the outcome of validating it
type PaymentSubmitted struct {
	Method models.PaymentMethod
	Fields models.PaymentFields
	Errors models.ValidationErrors
}

// ProcessingElapsed fires once the simulated processing delay has passed
type ProcessingElapsed struct{}

// ReceiptDownloaded records a receipt download; it never changes the state
type ReceiptDownloaded struct{}

func (CheckoutRequested) Name() string { return "proceed_to_checkout" }
func (MethodSelected) Name() string    { return "select_method" }
func (CardEdited) Name() string        { return "edit_card" }
func (NetbankingEdited) Name() string  { return "edit_netbanking" }
func (PaymentSubmitted) Name() string  { return "submit_payment" }
func (ProcessingElapsed) Name() string { return "processing_elapsed" }
func (ReceiptDownloaded) Name() string { return "download_receipt" }

// Reduce applies ev to s and returns the next state.
//
//	Cart        --CheckoutRequested-->           PaymentForm
//	PaymentForm --PaymentSubmitted(errors)-->    PaymentForm
//	PaymentForm --PaymentSubmitted(no errors)--> Processing
//	Processing  --ProcessingElapsed-->           Success
//	Success     --ReceiptDownloaded-->           Success
//
// Form edits and method switches are only accepted on the payment form.
// Any other combination, or a method outside the supported set, returns
// ErrInvalidTransition and s unchanged.
func Reduce(s State, ev Event) (State, error) {
	next := s.clone()

	switch e := ev.(type) {
	case CheckoutRequested:
		if s.Screen != models.ScreenCart {
			return s, invalid(s, ev)
		}
		next.Screen = models.ScreenPaymentForm

	case MethodSelected:
		if s.Screen != models.ScreenPaymentForm {
			return s, invalid(s, ev)
		}
		if !e.Method.Valid() {
			return s, unknownMethod(e.Method)
		}
		next.Method = e.Method
		next.Errors = models.ValidationErrors{}

	case CardEdited:
		if s.Screen != models.ScreenPaymentForm {
			return s, invalid(s, ev)
		}
		next.Card = e.Fields

	case NetbankingEdited:
		if s.Screen != models.ScreenPaymentForm {
			return s, invalid(s, ev)
		}
		next.Netbanking = e.Fields

	case PaymentSubmitted:
		if s.Screen != models.ScreenPaymentForm {
			return s, invalid(s, ev)
		}
		if !e.Method.Valid() {
			return s, unknownMethod(e.Method)
		}
		next.Method = e.Method
		next.Card = e.Fields.Card
		next.Netbanking = e.Fields.Netbanking
		if !e.Errors.Valid() {
			next.Errors = e.Errors.Clone()
			return next, nil
		}
		next.Errors = models.ValidationErrors{}
		next.Screen = models.ScreenProcessing

	case ProcessingElapsed:
		if s.Screen != models.ScreenProcessing {
			return s, invalid(s, ev)
		}
		next.Screen = models.ScreenSuccess

	case ReceiptDownloaded:
		if s.Screen != models.ScreenSuccess {
			return s, invalid(s, ev)
		}

	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}

	return next, nil
}

func unknownMethod(m models.PaymentMethod) error {
	return fmt.Errorf("%w: unknown payment method %s", ErrInvalidTransition, m)
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %s not allowed on %s screen", ErrInvalidTransition, ev.Name(), s.Screen)
}
