package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/paymentform"
)

// FormHandler exposes the input formatters and the bank list so a client can
// mask fields while the user types.
type FormHandler struct {
	clock  paymentform.Clock
	logger *zap.SugaredLogger
}

// NewFormHandler creates a new form handler
func NewFormHandler(clock paymentform.Clock, logger *zap.SugaredLogger) *FormHandler {
	if clock == nil {
		clock = paymentform.SystemClock
	}
	return &FormHandler{clock: clock, logger: logger}
}

// FormattedValue is the response of the format endpoints
type FormattedValue struct {
	Input     string `json:"input"`
	Formatted string `json:"formatted"`
	Expired   *bool  `json:"expired,omitempty"`
}

// BankOption is one entry of the bank dropdown
type BankOption struct {
	Name        string `json:"name"`
	Placeholder bool   `json:"placeholder"`
}

// FormatCardNumber handles GET /api/format/card-number?value=
func (h *FormHandler) FormatCardNumber(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("value")
	WriteJSON(w, http.StatusOK, FormattedValue{
		Input:     input,
		Formatted: paymentform.FormatCardNumber(input),
	}, h.logger)
}

// FormatExpiry handles GET /api/format/expiry?value=
// Once the value is a complete MM/YY the response also says whether it has expired.
func (h *FormHandler) FormatExpiry(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("value")
	resp := FormattedValue{
		Input:     input,
		Formatted: paymentform.FormatExpiry(input),
	}
	if len(resp.Formatted) == 5 {
		expired := paymentform.IsExpired(resp.Formatted, h.clock.Now())
		resp.Expired = &expired
	}
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// ListBanks handles GET /api/banks; the placeholder comes first
func (h *FormHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	options := make([]BankOption, 0, len(models.Banks)+1)
	options = append(options, BankOption{Name: string(models.BankUnselected), Placeholder: true})
	for _, b := range models.Banks {
		options = append(options, BankOption{Name: string(b)})
	}
	WriteJSON(w, http.StatusOK, options, h.logger)
}
