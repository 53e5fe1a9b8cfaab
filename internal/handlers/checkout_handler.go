package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/service"
)

// CheckoutHandler handles checkout session HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	log             *zap.SugaredLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, log *zap.SugaredLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		log:             log,
	}
}

// Routes mounts the session endpoints
func (h *CheckoutHandler) Routes(r chi.Router) {
	r.Post("/", h.StartSession)
	r.Route("/{sessionId}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/proceed", h.ProceedToCheckout)
		r.Put("/method", h.SelectMethod)
		r.Put("/card", h.EditCard)
		r.Put("/netbanking", h.EditNetbanking)
		r.Post("/submit", h.SubmitPayment)
		r.Get("/receipt", h.DownloadReceipt)
	})
}

// StartSession handles POST /api/checkout/sessions
func (h *CheckoutHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutService.StartSession(r.Context())
	if err != nil {
		h.handleError(w, "failed to start checkout session", err)
		return
	}
	WriteJSON(w, http.StatusCreated, view, h.log)
}

// GetSession handles GET /api/checkout/sessions/{sessionId}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutService.GetSession(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.handleError(w, "failed to get checkout session", err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.log)
}

// ProceedToCheckout handles POST /api/checkout/sessions/{sessionId}/proceed
func (h *CheckoutHandler) ProceedToCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutService.ProceedToCheckout(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.handleError(w, "failed to proceed to checkout", err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.log)
}

// SelectMethod handles PUT /api/checkout/sessions/{sessionId}/method
func (h *CheckoutHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req models.SelectMethodRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	view, err := h.checkoutService.SelectMethod(r.Context(), chi.URLParam(r, "sessionId"), req.Method)
	if err != nil {
		h.handleError(w, "failed to select payment method", err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.log)
}

// EditCard handles PUT /api/checkout/sessions/{sessionId}/card
func (h *CheckoutHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	var req models.CardFieldsRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	view, err := h.checkoutService.EditCard(r.Context(), chi.URLParam(r, "sessionId"), req)
	if err != nil {
		h.handleError(w, "failed to edit card fields", err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.log)
}

// EditNetbanking handles PUT /api/checkout/sessions/{sessionId}/netbanking
func (h *CheckoutHandler) EditNetbanking(w http.ResponseWriter, r *http.Request) {
	var req models.NetbankingFieldsRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	view, err := h.checkoutService.EditNetbanking(r.Context(), chi.URLParam(r, "sessionId"), req)
	if err != nil {
		h.handleError(w, "failed to edit netbanking fields", err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.log)
}

// SubmitPayment handles POST /api/checkout/sessions/{sessionId}/submit.
// "card" and "netbanking" in the body replace the stored form; when left
// out the fields saved through PUT /card and PUT /netbanking are submitted.
// - 202: payment accepted, session is processing
// - 422: form has field errors, session stays on the payment form
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPaymentRequest
	if err := readJSON(w, r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	view, errs, err := h.checkoutService.SubmitPayment(r.Context(), chi.URLParam(r, "sessionId"), req)
	if err != nil {
		h.handleError(w, "failed to submit payment", err)
		return
	}

	if !errs.Valid() {
		WriteJSON(w, http.StatusUnprocessableEntity, view, h.log)
		return
	}
	WriteJSON(w, http.StatusAccepted, view, h.log)
}

// DownloadReceipt handles GET /api/checkout/sessions/{sessionId}/receipt
func (h *CheckoutHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	saver := &attachmentSaver{w: w}
	err := h.checkoutService.DownloadReceipt(r.Context(), chi.URLParam(r, "sessionId"), saver)
	if err != nil {
		if saver.written {
			h.log.Errorw("failed to write receipt", "error", err)
			return
		}
		h.handleError(w, "failed to download receipt", err)
		return
	}
}

// attachmentSaver saves a file by sending it as an attachment download
type attachmentSaver struct {
	w       http.ResponseWriter
	written bool
}

func (s *attachmentSaver) Save(filename string, content []byte) error {
	s.written = true
	s.w.Header().Set("Content-Type", checkout.ReceiptContentType)
	s.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	s.w.WriteHeader(http.StatusOK)
	_, err := s.w.Write(content)
	return err
}

func (h *CheckoutHandler) badRequest(w http.ResponseWriter, err error) {
	h.log.Warnw("invalid checkout request", "error", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		WriteError(w, http.StatusBadRequest, "Invalid fields: "+strings.Join(fields, ", "), h.log)
		return
	}
	WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
}

func (h *CheckoutHandler) handleError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		h.log.Infow(msg, "error", err)
		WriteError(w, http.StatusNotFound, "Checkout session not found", h.log)
	case errors.Is(err, service.ErrInvalidTransition):
		h.log.Infow(msg, "error", err)
		WriteError(w, http.StatusConflict, err.Error(), h.log)
	case errors.Is(err, service.ErrInvalidMethod):
		h.log.Infow(msg, "error", err)
		WriteError(w, http.StatusBadRequest, "Unknown payment method", h.log)
	default:
		h.log.Errorw(msg, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
