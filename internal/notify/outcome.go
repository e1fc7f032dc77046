// Package notify fans a canonical order out to independent notification channels.
package notify

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
)

// Channel is one outbound notification mechanism. Send reports its result as an
// Outcome instead of an error so that one channel can never abort another.
type Channel interface {
	Name() string
	Send(ctx context.Context, order models.Order) Outcome
}

type Status string

const (
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the result of one channel for one order.
type Outcome struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

func Delivered() Outcome {
	return Outcome{Status: StatusDelivered}
}

// DeliveredWith records a successful delivery with a note, e.g. a provider-side duplicate.
func DeliveredWith(reason string) Outcome {
	return Outcome{Status: StatusDelivered, Reason: reason}
}

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: err.Error(), Err: err}
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return string(o.Status)
	}
	return fmt.Sprintf("%s(%s)", o.Status, o.Reason)
}

// DeliveryError is a non-success answer from a notification provider.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s: provider returned status %d: %s", e.Channel, e.StatusCode, body)
}
