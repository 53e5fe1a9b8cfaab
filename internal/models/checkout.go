package models

import (
	"encoding/json"
	"fmt"
)

// CartItem is the single item being paid for in a checkout session
type CartItem struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	PriceMinorUnits int64  `json:"priceMinorUnits"`
	Currency        string `json:"currency"`
}

// Merchant describes who requested the payment
type Merchant struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	PoweredBy string `json:"poweredBy"`
}

// BookingDetail is one labelled line of the cart summary
type BookingDetail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Cart is the summary shown on the Cart screen
type Cart struct {
	Merchant Merchant        `json:"merchant"`
	Item     CartItem        `json:"item"`
	Details  []BookingDetail `json:"details"`
}

// PaymentMethod is the closed set of supported payment methods
type PaymentMethod int

const (
	PaymentMethodCard PaymentMethod = iota
	PaymentMethodNetbanking
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCard:
		return "card"
	case PaymentMethodNetbanking:
		return "netbanking"
	default:
		return fmt.Sprintf("PaymentMethod(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported methods
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodNetbanking
}

// ParsePaymentMethod converts the wire name of a payment method
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "card":
		return PaymentMethodCard, nil
	case "netbanking":
		return PaymentMethodNetbanking, nil
	default:
		return 0, fmt.Errorf("unknown payment method %q", s)
	}
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Bank is a netbanking bank. BankUnselected is the placeholder shown before
// the user picks one and never counts as a selection.
type Bank string

const (
	BankUnselected Bank = "Select your Bank"
	BankSBI        Bank = "State Bank of India"
	BankHDFC       Bank = "HDFC Bank"
	BankICICI      Bank = "ICICI Bank"
	BankAxis       Bank = "Axis Bank"
)

// Banks lists the selectable banks in display order
var Banks = []Bank{BankSBI, BankHDFC, BankICICI, BankAxis}

// Selected reports whether b is one of the known banks
func (b Bank) Selected() bool {
	for _, known := range Banks {
		if b == known {
			return true
		}
	}
	return false
}

// ParseBank maps a display name to a Bank. Anything unknown is unselected.
func ParseBank(s string) Bank {
	b := Bank(s)
	if b.Selected() {
		return b
	}
	return BankUnselected
}

// CardFields holds the card form in its formatted display form
type CardFields struct {
	Number     string `json:"number"`
	NameOnCard string `json:"nameOnCard"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// NetbankingFields holds the netbanking form
type NetbankingFields struct {
	Bank          Bank   `json:"bank"`
	AccountHolder string `json:"accountHolder"`
}

// PaymentFields carries both forms; only the one matching the method is validated
type PaymentFields struct {
	Card       CardFields       `json:"card"`
	Netbanking NetbankingFields `json:"netbanking"`
}

// Field keys used in ValidationErrors
const (
	FieldCardNumber    = "cardNumber"
	FieldNameOnCard    = "nameOnCard"
	FieldExpiry        = "expiry"
	FieldCVV           = "cvv"
	FieldSelectedBank  = "selectedBank"
	FieldAccountHolder = "accountHolder"
	FieldMethod        = "method"
)

// ValidationErrors maps a field key to a user-facing message. Empty means valid.
type ValidationErrors map[string]string

// Valid reports whether there are no errors
func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

// Clone returns an independent copy; nil stays nil
func (e ValidationErrors) Clone() ValidationErrors {
	if e == nil {
		return nil
	}
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Screen is the discrete view the checkout flow is on
type Screen int

const (
	ScreenCart Screen = iota
	ScreenPaymentForm
	ScreenProcessing
	ScreenSuccess
)

func (s Screen) String() string {
	switch s {
	case ScreenCart:
		return "cart"
	case ScreenPaymentForm:
		return "payment_form"
	case ScreenProcessing:
		return "processing"
	case ScreenSuccess:
		return "success"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

func (s Screen) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
