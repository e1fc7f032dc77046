package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/normalize"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/payment"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/pkg/logger"
)

// recordingChannel stands in for a provider adapter and keeps every order it was sent.
type recordingChannel struct {
	name string

	mu     sync.Mutex
	orders []models.Order
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, order models.Order) notify.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = append(c.orders, order)
	return notify.Delivered()
}

func (c *recordingChannel) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Order(nil), c.orders...)
}

type stubSessions struct {
	session   models.PaymentSession
	lineItems []models.LineItem
	err       error
	listErr   error
}

func (s *stubSessions) Retrieve(_ context.Context, _ string) (models.PaymentSession, []models.LineItem, error) {
	if s.err != nil {
		return models.PaymentSession{}, nil, s.err
	}
	return s.session, s.lineItems, nil
}

func (s *stubSessions) LineItems(_ context.Context, _ string) ([]models.LineItem, error) {
	return s.lineItems, s.listErr
}

type testEnv struct {
	service  *service.OrderService
	channels []*recordingChannel
}

// newTestEnv wires a real normalizer and dispatcher to three recording channels.
// A nil sessions leaves the payment gateway unconfigured.
func newTestEnv(sessions payment.Sessions) *testEnv {
	log := logger.New("error")

	channels := []*recordingChannel{
		{name: "instant_message"},
		{name: "customer_email"},
		{name: "operator_email"},
	}
	asChannels := make([]notify.Channel, len(channels))
	for i, c := range channels {
		asChannels[i] = c
	}

	normalizer := normalize.New(
		normalize.WithIDGenerator(func() string { return "ABCD1234" }),
		normalize.WithClock(func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }),
	)
	dispatcher := notify.NewDispatcher(asChannels, time.Second, nil, log)

	return &testEnv{
		service:  service.NewOrderService(normalizer, dispatcher, sessions, log),
		channels: channels,
	}
}

func (e *testEnv) totalSends() int {
	n := 0
	for _, c := range e.channels {
		n += len(c.Orders())
	}
	return n
}
