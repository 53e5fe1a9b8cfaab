package paymentform

import (
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
)

// Error messages returned per field
const (
	MsgInvalidCardNumber = "Invalid card number"
	MsgRequired          = "Required"
	MsgInvalidExpiry     = "Invalid expiry"
	MsgInvalidCVV        = "Invalid CVV"
	MsgSelectBank        = "Select bank"
	MsgUnknownMethod     = "Unknown payment method"
)

// Validator checks a payment form against the rules of its payment method
type Validator struct {
	clock Clock
}

// NewValidator creates a validator. A nil clock uses the system clock.
func NewValidator(clock Clock) *Validator {
	if clock == nil {
		clock = SystemClock
	}
	return &Validator{clock: clock}
}

// Validate returns every field error for the selected method.
// Fields of the other method are ignored.
func (v *Validator) Validate(method models.PaymentMethod, fields models.PaymentFields) models.ValidationErrors {
	errs := models.ValidationErrors{}

	switch method {
	case models.PaymentMethodCard:
		v.validateCard(fields.Card, errs)
	case models.PaymentMethodNetbanking:
		validateNetbanking(fields.Netbanking, errs)
	default:
		errs[models.FieldMethod] = MsgUnknownMethod
	}

	return errs
}

func (v *Validator) validateCard(card models.CardFields, errs models.ValidationErrors) {
	if countDigits(card.Number) != cardDigits {
		errs[models.FieldCardNumber] = MsgInvalidCardNumber
	}

	if strings.TrimSpace(card.NameOnCard) == "" {
		errs[models.FieldNameOnCard] = MsgRequired
	}

	if len(card.Expiry) != 5 || IsExpired(card.Expiry, v.clock.Now()) {
		errs[models.FieldExpiry] = MsgInvalidExpiry
	}

	if countDigits(card.CVV) != cvvDigits {
		errs[models.FieldCVV] = MsgInvalidCVV
	}
}

func validateNetbanking(nb models.NetbankingFields, errs models.ValidationErrors) {
	if !nb.Bank.Selected() {
		errs[models.FieldSelectedBank] = MsgSelectBank
	}

	if strings.TrimSpace(nb.AccountHolder) == "" {
		errs[models.FieldAccountHolder] = MsgRequired
	}
}
