package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
)

const (
	ChannelName  = "order_event"
	DefaultQueue = "order.notified"
)

// Publisher is the subset of *RabbitMQ the adapter needs.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte, messageID string) error
}

// OrderEvent is the message body published for every order.
type OrderEvent struct {
	Event       string       `json:"event"`
	Order       models.Order `json:"order"`
	Subtotal    int64        `json:"subtotal"`
	DeliveryFee int64        `json:"deliveryFee"`
	PublishedAt time.Time    `json:"publishedAt"`
}

// Adapter publishes each order as an OrderEvent. With a nil publisher every send is skipped.
type Adapter struct {
	pub   Publisher
	queue string
	now   func() time.Time
}

func NewAdapter(pub Publisher, queue string) *Adapter {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Adapter{pub: pub, queue: queue, now: time.Now}
}

func (a *Adapter) Name() string { return ChannelName }

func (a *Adapter) Configured() bool { return a.pub != nil }

func (a *Adapter) Send(ctx context.Context, order models.Order) notify.Outcome {
	if a.pub == nil {
		return notify.Skipped("broker not configured")
	}

	body, err := json.Marshal(OrderEvent{
		Event:       a.queue,
		Order:       order,
		Subtotal:    order.Subtotal(),
		DeliveryFee: order.DeliveryFee(),
		PublishedAt: a.now().UTC(),
	})
	if err != nil {
		return notify.Failed(fmt.Errorf("encode order event: %w", err))
	}

	if err := a.pub.Publish(ctx, a.queue, body, order.ID); err != nil {
		return notify.Failed(err)
	}
	return notify.Delivered()
}
