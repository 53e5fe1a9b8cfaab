package models

// SelectMethodRequest is the body of PUT /method
type SelectMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=card netbanking"`
}

// CardFieldsRequest carries raw card keystrokes; values are normalized server side
type CardFieldsRequest struct {
	Number     string `json:"number" validate:"max=64"`
	NameOnCard string `json:"nameOnCard" validate:"max=128"`
	Expiry     string `json:"expiry" validate:"max=16"`
	CVV        string `json:"cvv" validate:"max=16"`
}

// NetbankingFieldsRequest carries the raw netbanking form
type NetbankingFieldsRequest struct {
	Bank          string `json:"bank" validate:"max=64"`
	AccountHolder string `json:"accountHolder" validate:"max=128"`
}

// SubmitPaymentRequest is the body of POST /submit. A form left out of the
// body is taken from what was stored by the live edit endpoints.
type SubmitPaymentRequest struct {
	Method     string                   `json:"method" validate:"required,oneof=card netbanking"`
	Card       *CardFieldsRequest       `json:"card,omitempty"`
	Netbanking *NetbankingFieldsRequest `json:"netbanking,omitempty"`
}

// View is the full state handed to the rendering side after every operation
type View struct {
	SessionID  string           `json:"sessionId"`
	Screen     Screen           `json:"screen"`
	Cart       Cart             `json:"cart"`
	Method     PaymentMethod    `json:"method"`
	Card       CardFields       `json:"card"`
	Netbanking NetbankingFields `json:"netbanking"`
	Errors     ValidationErrors `json:"errors"`
}
