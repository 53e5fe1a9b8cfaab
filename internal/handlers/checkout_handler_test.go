package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/paymentform"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/checkout/pkg/logger"
)

var handlerNow = time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

// viewResponse mirrors models.View with plain strings for the enums
type viewResponse struct {
	SessionID string            `json:"sessionId"`
	Screen    string            `json:"screen"`
	Method    string            `json:"method"`
	Errors    map[string]string `json:"errors"`
	Card      struct {
		Number string `json:"number"`
		Expiry string `json:"expiry"`
	} `json:"card"`
	Cart struct {
		Item struct {
			Title           string `json:"title"`
			PriceMinorUnits int64  `json:"priceMinorUnits"`
		} `json:"item"`
	} `json:"cart"`
}

func newTestRouter(t *testing.T, delay time.Duration) http.Handler {
	t.Helper()
	log := logger.Nop()
	clock := paymentform.ClockFunc(func() time.Time { return handlerNow })

	svc := service.NewCheckoutService(
		repository.NewInMemoryCartRepository(),
		repository.NewInMemorySessionRepository(time.Minute, 0, nil),
		paymentform.NewValidator(clock),
		checkout.TimerScheduler{},
		delay,
		log,
	)

	r := chi.NewRouter()
	r.Route("/api/checkout/sessions", NewCheckoutHandler(svc, log).Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) viewResponse {
	t.Helper()
	var v viewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/checkout/sessions/", "")
	require.Equal(t, http.StatusCreated, w.Code)
	v := decodeView(t, w)
	require.NotEmpty(t, v.SessionID)
	return "/api/checkout/sessions/" + v.SessionID
}

const validCardBody = `{"method":"card","card":{"number":"4111111111111111","nameOnCard":"Jane Doe","expiry":"12/35","cvv":"123"}}`

func TestCheckoutHandler_FullFlow(t *testing.T) {
	h := newTestRouter(t, 5*time.Millisecond)
	base := startSession(t, h)

	w := do(t, h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w)
	assert.Equal(t, "cart", v.Screen)
	assert.Equal(t, "Inception", v.Cart.Item.Title)
	assert.Equal(t, int64(68000), v.Cart.Item.PriceMinorUnits)

	w = do(t, h, http.MethodPost, base+"/proceed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "payment_form", decodeView(t, w).Screen)

	w = do(t, h, http.MethodPut, base+"/card", `{"number":"41111111111","expiry":"122"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	assert.Equal(t, "4111 1111 111", v.Card.Number)
	assert.Equal(t, "12/2", v.Card.Expiry)

	w = do(t, h, http.MethodPost, base+"/submit", validCardBody)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "processing", decodeView(t, w).Screen)

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, base, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		var v viewResponse
		return json.NewDecoder(w.Body).Decode(&v) == nil && v.Screen == "success"
	}, time.Second, 5*time.Millisecond)

	w = do(t, h, http.MethodGet, base+"/receipt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, checkout.ReceiptContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), checkout.ReceiptFilename)
	assert.Contains(t, w.Body.String(), "Transaction Successful")
}

func TestCheckoutHandler_SubmitInvalid(t *testing.T) {
	h := newTestRouter(t, time.Hour)
	base := startSession(t, h)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/proceed", "").Code)

	w := do(t, h, http.MethodPost, base+"/submit", `{"method":"netbanking","netbanking":{"bank":"Select your Bank","accountHolder":""}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	v := decodeView(t, w)
	assert.Equal(t, "payment_form", v.Screen)
	assert.Equal(t, map[string]string{
		"selectedBank":  "Select bank",
		"accountHolder": "Required",
	}, v.Errors)

	w = do(t, h, http.MethodPut, base+"/method", `{"method":"card"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	assert.Equal(t, "card", v.Method)
	assert.Empty(t, v.Errors)
}

func TestCheckoutHandler_Errors(t *testing.T) {
	h := newTestRouter(t, time.Hour)
	base := startSession(t, h)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "unknown session",
			method:         http.MethodGet,
			path:           "/api/checkout/sessions/does-not-exist",
			expectedStatus: http.StatusNotFound,
			expectedError:  "Checkout session not found",
		},
		{
			name:           "submit from cart",
			method:         http.MethodPost,
			path:           base + "/submit",
			body:           validCardBody,
			expectedStatus: http.StatusConflict,
			expectedError:  "invalid transition",
		},
		{
			name:           "receipt before success",
			method:         http.MethodGet,
			path:           base + "/receipt",
			expectedStatus: http.StatusConflict,
			expectedError:  "invalid transition",
		},
		{
			name:           "unsupported method",
			method:         http.MethodPut,
			path:           base + "/method",
			body:           `{"method":"upi"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid fields: Method",
		},
		{
			name:           "malformed json",
			method:         http.MethodPut,
			path:           base + "/card",
			body:           `{"number":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "unknown field",
			method:         http.MethodPut,
			path:           base + "/netbanking",
			body:           `{"ifsc":"HDFC0001"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.True(t, strings.Contains(resp["error"], tt.expectedError), "error %q should contain %q", resp["error"], tt.expectedError)
		})
	}
}

func TestCheckoutHandler_SubmitStoredForm(t *testing.T) {
	h := newTestRouter(t, time.Hour)
	base := startSession(t, h)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/proceed", "").Code)

	w := do(t, h, http.MethodPut, base+"/card", `{"number":"4111111111111111","nameOnCard":"Jane Doe","expiry":"1235","cvv":"123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, base+"/submit", `{"method":"card"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	v := decodeView(t, w)
	assert.Equal(t, "processing", v.Screen)
	assert.Equal(t, "4111 1111 1111 1111", v.Card.Number)
}
