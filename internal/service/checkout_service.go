package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/paymentform"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/repository"
)

var (
	ErrSessionNotFound   = repository.ErrSessionNotFound
	ErrInvalidTransition = checkout.ErrInvalidTransition
	ErrInvalidMethod     = errors.New("unknown payment method")
)

// CheckoutService runs checkout sessions on top of the flow controller
type CheckoutService struct {
	carts     repository.CartRepository
	sessions  repository.SessionRepository
	validator *paymentform.Validator
	scheduler checkout.Scheduler
	delay     time.Duration
	log       *zap.SugaredLogger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts repository.CartRepository,
	sessions repository.SessionRepository,
	validator *paymentform.Validator,
	scheduler checkout.Scheduler,
	delay time.Duration,
	log *zap.SugaredLogger,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		sessions:  sessions,
		validator: validator,
		scheduler: scheduler,
		delay:     delay,
		log:       log,
	}
}

// StartSession opens a new flow on the Cart screen
func (s *CheckoutService) StartSession(ctx context.Context) (*models.View, error) {
	cart, err := s.carts.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	session := &repository.Session{
		ID:         uuid.New().String(),
		Cart:       cart,
		Controller: checkout.NewController(s.validator, s.scheduler, s.delay, s.log),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Infow("checkout session started", "session_id", session.ID)
	return viewOf(session), nil
}

// GetSession returns the current view of a session
func (s *CheckoutService) GetSession(ctx context.Context, id string) (*models.View, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// ProceedToCheckout moves a session from the cart to the payment form
func (s *CheckoutService) ProceedToCheckout(ctx context.Context, id string) (*models.View, error) {
	return s.update(ctx, id, func(c *checkout.Controller) error {
		return c.ProceedToCheckout()
	})
}

// SelectMethod switches the payment method by its wire name
func (s *CheckoutService) SelectMethod(ctx context.Context, id, method string) (*models.View, error) {
	m, err := models.ParsePaymentMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}
	return s.update(ctx, id, func(c *checkout.Controller) error {
		return c.SelectMethod(m)
	})
}

// EditCard stores card keystrokes
func (s *CheckoutService) EditCard(ctx context.Context, id string, req models.CardFieldsRequest) (*models.View, error) {
	return s.update(ctx, id, func(c *checkout.Controller) error {
		return c.EditCard(cardFields(req))
	})
}

// EditNetbanking stores the netbanking form
func (s *CheckoutService) EditNetbanking(ctx context.Context, id string, req models.NetbankingFieldsRequest) (*models.View, error) {
	return s.update(ctx, id, func(c *checkout.Controller) error {
		return c.EditNetbanking(netbankingFields(req))
	})
}

// SubmitPayment validates and, when valid, starts processing. Forms missing
// from req fall back to the session's stored fields.
// The returned errors are empty when the payment was accepted.
func (s *CheckoutService) SubmitPayment(ctx context.Context, id string, req models.SubmitPaymentRequest) (*models.View, models.ValidationErrors, error) {
	m, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidMethod, req.Method)
	}

	var errs models.ValidationErrors
	view, err := s.update(ctx, id, func(c *checkout.Controller) error {
		current := c.State()
		fields := models.PaymentFields{Card: current.Card, Netbanking: current.Netbanking}
		if req.Card != nil {
			fields.Card = cardFields(*req.Card)
		}
		if req.Netbanking != nil {
			fields.Netbanking = netbankingFields(*req.Netbanking)
		}

		var submitErr error
		errs, submitErr = c.SubmitPayment(m, fields)
		return submitErr
	})
	if err != nil {
		return nil, nil, err
	}

	if errs.Valid() {
		s.log.Infow("payment accepted for processing", "session_id", id, "method", m)
	} else {
		s.log.Infow("payment form rejected", "session_id", id, "method", m, "fields", len(errs))
	}
	return view, errs, nil
}

// DownloadReceipt hands the receipt of a completed session to saver
func (s *CheckoutService) DownloadReceipt(ctx context.Context, id string, saver checkout.FileSaver) error {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := session.Controller.DownloadReceipt(saver); err != nil {
		return err
	}
	s.log.Infow("receipt downloaded", "session_id", id)
	return nil
}

// ActiveSessions reports how many sessions are stored
func (s *CheckoutService) ActiveSessions() int {
	return s.sessions.Count()
}

func (s *CheckoutService) update(ctx context.Context, id string, op func(*checkout.Controller) error) (*models.View, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(session.Controller); err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

func viewOf(session *repository.Session) *models.View {
	state := session.Controller.State()
	return &models.View{
		SessionID:  session.ID,
		Screen:     state.Screen,
		Cart:       session.Cart,
		Method:     state.Method,
		Card:       state.Card,
		Netbanking: state.Netbanking,
		Errors:     state.Errors,
	}
}

func cardFields(req models.CardFieldsRequest) models.CardFields {
	return models.CardFields{
		Number:     req.Number,
		NameOnCard: req.NameOnCard,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
	}
}

func netbankingFields(req models.NetbankingFieldsRequest) models.NetbankingFields {
	return models.NetbankingFields{
		Bank:          models.ParseBank(req.Bank),
		AccountHolder: req.AccountHolder,
	}
}
