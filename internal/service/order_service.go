package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/dedup"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/normalize"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/payment"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/webhook"
)

var (
	ErrMissingSessionID = errors.New("session_id is required")
	ErrNoSession        = errors.New("webhook event carries no usable checkout session")
)

// Dispatcher fans an order out to the notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, order models.Order) *notify.Report
}

// Recorder receives webhook-level observations. *metrics.Metrics implements it.
type Recorder interface {
	ObserveWebhook(eventType, result string)
	ObserveDuplicate()
}

// Webhook results reported to the Recorder.
const (
	ResultIgnored    = "ignored"
	ResultRejected   = "rejected"
	ResultDispatched = "dispatched"
)

// DefaultGatewayTimeout bounds each payment gateway call.
const DefaultGatewayTimeout = 10 * time.Second

// OrderService turns incoming orders into dispatched notifications
type OrderService struct {
	normalizer     *normalize.Normalizer
	dispatcher     Dispatcher
	sessions       payment.Sessions
	tracker        dedup.Tracker
	recorder       Recorder
	gatewayTimeout time.Duration
	log            *slog.Logger
}

type Option func(*OrderService)

// WithTracker enables duplicate-delivery sightings for webhook events.
func WithTracker(t dedup.Tracker) Option {
	return func(s *OrderService) { s.tracker = t }
}

func WithRecorder(r Recorder) Option {
	return func(s *OrderService) { s.recorder = r }
}

// WithGatewayTimeout bounds every session and line item fetch.
func WithGatewayTimeout(d time.Duration) Option {
	return func(s *OrderService) {
		if d > 0 {
			s.gatewayTimeout = d
		}
	}
}

// NewOrderService creates a new order service. sessions may be nil when no
// payment gateway is configured.
func NewOrderService(normalizer *normalize.Normalizer, dispatcher Dispatcher, sessions payment.Sessions, log *slog.Logger, opts ...Option) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	s := &OrderService{
		normalizer:     normalizer,
		dispatcher:     dispatcher,
		sessions:       sessions,
		gatewayTimeout: DefaultGatewayTimeout,
		log:            log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates a direct submission and notifies every channel.
// A *normalize.ValidationError means nothing was dispatched.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, *notify.Report, error) {
	order, err := s.normalizer.Normalize(normalize.DirectSubmission{Request: req})
	if err != nil {
		return models.Order{}, nil, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"order_type", order.Type,
		"total", order.TotalAmount,
		"items", len(order.Items),
	)

	report := s.dispatcher.Dispatch(ctx, order)
	return order, report, nil
}

// HandlePaymentEvent dispatches the order behind an authenticated completed-payment event.
// Ignored event kinds return a nil report and no error. Repeated deliveries are
// logged and counted but still dispatched.
func (s *OrderService) HandlePaymentEvent(ctx context.Context, evt webhook.Event) (*notify.Report, error) {
	if evt.Ignored {
		s.log.Debug("webhook event ignored", "event_id", evt.ID, "type", evt.Kind)
		s.observe(evt.Kind, ResultIgnored)
		return nil, nil
	}

	s.recordSighting(ctx, evt)

	session, lineItems, err := s.loadSession(ctx, evt)
	if err != nil {
		s.observe(evt.Kind, ResultRejected)
		return nil, err
	}

	order, err := s.normalizer.Normalize(normalize.PaymentSessionSource{Session: session, LineItems: lineItems})
	if err != nil {
		s.observe(evt.Kind, ResultRejected)
		return nil, fmt.Errorf("session %s: %w", session.ID, err)
	}

	if order.IsDelivery() {
		if missing := order.Customer.MissingAddressFields(); len(missing) > 0 {
			s.log.Warn("paid delivery order has an incomplete address",
				"order_id", order.ID,
				"session_id", session.ID,
				"missing", missing,
			)
		}
	}

	s.log.Info("payment received",
		"order_id", order.ID,
		"session_id", session.ID,
		"event_id", evt.ID,
		"total", order.TotalAmount,
	)

	report := s.dispatcher.Dispatch(ctx, order)
	s.observe(evt.Kind, ResultDispatched)
	return report, nil
}

// CheckoutSession returns a gateway session for the confirmation page.
func (s *OrderService) CheckoutSession(ctx context.Context, id string) (models.PaymentSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.PaymentSession{}, ErrMissingSessionID
	}
	if s.sessions == nil {
		return models.PaymentSession{}, payment.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	session, _, err := s.sessions.Retrieve(ctx, id)
	if err != nil {
		return models.PaymentSession{}, err
	}
	return session, nil
}

// loadSession prefers the gateway's full session and falls back to the copy
// embedded in the event. The embedded copy never carries line items, so they
// are listed by session id when the gateway answers that call.
func (s *OrderService) loadSession(ctx context.Context, evt webhook.Event) (models.PaymentSession, []models.LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	if s.sessions != nil {
		session, lineItems, err := s.sessions.Retrieve(ctx, evt.SessionID)
		if err == nil {
			return session, lineItems, nil
		}
		s.log.Warn("session retrieval failed, using event payload",
			"session_id", evt.SessionID,
			"error", err,
		)
	}

	if len(evt.Object) == 0 {
		return models.PaymentSession{}, nil, ErrNoSession
	}
	session, lineItems, err := payment.FromEventObject(evt.Object)
	if err != nil {
		return models.PaymentSession{}, nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if session.ID == "" {
		session.ID = evt.SessionID
	}

	if len(lineItems) == 0 && s.sessions != nil {
		listed, err := s.sessions.LineItems(ctx, session.ID)
		if err != nil {
			s.log.Warn("line item listing failed", "session_id", session.ID, "error", err)
		} else {
			lineItems = listed
		}
	}
	return session, lineItems, nil
}

func (s *OrderService) recordSighting(ctx context.Context, evt webhook.Event) {
	if s.tracker == nil {
		return
	}

	key := evt.ID
	if key == "" {
		key = evt.SessionID
	}

	seen, err := s.tracker.Seen(ctx, key)
	if err != nil {
		s.log.Warn("duplicate tracker unavailable", "event_id", evt.ID, "error", err)
		return
	}
	if seen {
		s.log.Warn("probable duplicate webhook delivery",
			"event_id", evt.ID,
			"session_id", evt.SessionID,
		)
		if s.recorder != nil {
			s.recorder.ObserveDuplicate()
		}
	}
}

func (s *OrderService) observe(eventType, result string) {
	if s.recorder != nil {
		s.recorder.ObserveWebhook(eventType, result)
	}
}
