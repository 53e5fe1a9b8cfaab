package checkout

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/paymentform"
)

// DefaultProcessingDelay is how long the simulated payment takes
const DefaultProcessingDelay = 1500 * time.Millisecond

// Controller owns the state of one checkout flow and drives its transitions.
// Requests and the processing timer may call it from different goroutines.
type Controller struct {
	mu        sync.Mutex
	state     State
	validator *paymentform.Validator
	scheduler Scheduler
	delay     time.Duration
	cancel    CancelFunc
	log       *zap.SugaredLogger
}

// NewController creates a controller on the Cart screen
func NewController(validator *paymentform.Validator, scheduler Scheduler, delay time.Duration, log *zap.SugaredLogger) *Controller {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	flowsStarted.Inc()

	return &Controller{
		state:     NewState(),
		validator: validator,
		scheduler: scheduler,
		delay:     delay,
		log:       log,
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// apply must be called with mu held
func (c *Controller) apply(ev Event) error {
	next, err := Reduce(c.state, ev)
	if err != nil {
		return err
	}
	if next.Screen != c.state.Screen {
		c.log.Debugw("checkout screen changed", "from", c.state.Screen, "to", next.Screen, "event", ev.Name())
	}
	c.state = next
	return nil
}

// ProceedToCheckout leaves the cart for the payment form
func (c *Controller) ProceedToCheckout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(CheckoutRequested{})
}

// SelectMethod switches the payment method and clears all field errors
func (c *Controller) SelectMethod(method models.PaymentMethod) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(MethodSelected{Method: method})
}

// EditCard stores raw card input after normalizing it the way the form does
// while typing.
func (c *Controller) EditCard(raw models.CardFields) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(CardEdited{Fields: normalizeCard(raw)})
}

// EditNetbanking stores the netbanking form
func (c *Controller) EditNetbanking(fields models.NetbankingFields) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(NetbankingEdited{Fields: fields})
}

// SubmitPayment validates the form for method. With errors the flow stays on
// the payment form and the errors are returned. Otherwise the flow moves to
// Processing and Success follows once the processing delay has passed.
func (c *Controller) SubmitPayment(method models.PaymentMethod, fields models.PaymentFields) (models.ValidationErrors, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Screen != models.ScreenPaymentForm {
		return nil, invalid(c.state, PaymentSubmitted{})
	}
	if !method.Valid() {
		return nil, unknownMethod(method)
	}

	fields.Card = normalizeCard(fields.Card)
	errs := c.validator.Validate(method, fields)

	if err := c.apply(PaymentSubmitted{Method: method, Fields: fields, Errors: errs}); err != nil {
		return nil, err
	}

	if !errs.Valid() {
		paymentsSubmitted.WithLabelValues(method.String(), "invalid").Inc()
		return errs.Clone(), nil
	}

	paymentsSubmitted.WithLabelValues(method.String(), "accepted").Inc()
	c.cancel = c.scheduler.Schedule(c.delay, c.completeProcessing)
	return models.ValidationErrors{}, nil
}

func (c *Controller) completeProcessing() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel = nil
	if err := c.apply(ProcessingElapsed{}); err != nil {
		c.log.Warnw("processing finished on unexpected screen", "error", err)
		return
	}
	paymentsCompleted.Inc()
}

// DownloadReceipt hands the ticket to saver. Only allowed on the Success screen.
func (c *Controller) DownloadReceipt(saver FileSaver) error {
	c.mu.Lock()
	err := c.apply(ReceiptDownloaded{})
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if err := saver.Save(ReceiptFilename, Receipt()); err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	receiptsDownloaded.Inc()
	return nil
}

// Close stops a pending processing task. The flow itself never does this;
// it is for discarding a session that is still processing.
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}
	stopped := c.cancel()
	c.cancel = nil
	return stopped
}

func normalizeCard(raw models.CardFields) models.CardFields {
	return models.CardFields{
		Number:     paymentform.FormatCardNumber(raw.Number),
		NameOnCard: raw.NameOnCard,
		Expiry:     paymentform.FormatExpiry(raw.Expiry),
		CVV:        paymentform.FormatCVV(raw.CVV),
	}
}
