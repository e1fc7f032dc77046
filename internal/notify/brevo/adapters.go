package brevo

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/render"
)

const (
	CustomerChannel = "customer_email"
	OperatorChannel = "operator_email"
)

// CustomerAdapter emails the order confirmation to the customer.
type CustomerAdapter struct {
	client *Client
	shop   render.Shop
}

func NewCustomerAdapter(client *Client, shop render.Shop) *CustomerAdapter {
	return &CustomerAdapter{client: client, shop: shop}
}

func (a *CustomerAdapter) Name() string { return CustomerChannel }

func (a *CustomerAdapter) Configured() bool { return a.client.Configured() }

func (a *CustomerAdapter) Send(ctx context.Context, order models.Order) notify.Outcome {
	if !a.client.Configured() {
		return notify.Skipped(ErrNotConfigured.Error())
	}
	if order.Customer.Email == "" {
		return notify.Skipped("order has no customer email")
	}

	email, err := render.CustomerEmail(order, a.shop)
	if err != nil {
		return notify.Failed(fmt.Errorf("render customer email: %w", err))
	}

	err = a.client.Send(ctx, Message{
		To:      order.Customer.Email,
		ToName:  order.Customer.FullName(),
		Subject: email.Subject,
		HTML:    email.HTML,
		Channel: CustomerChannel,
	})
	if err != nil {
		return notify.Failed(err)
	}
	return notify.Delivered()
}

// OperatorAdapter emails the new-order alert to the shop mailbox.
type OperatorAdapter struct {
	client *Client
	shop   render.Shop
}

func NewOperatorAdapter(client *Client, shop render.Shop) *OperatorAdapter {
	return &OperatorAdapter{client: client, shop: shop}
}

func (a *OperatorAdapter) Name() string { return OperatorChannel }

func (a *OperatorAdapter) Configured() bool {
	return a.client.Configured() && a.client.OperatorEmail() != ""
}

func (a *OperatorAdapter) Send(ctx context.Context, order models.Order) notify.Outcome {
	if !a.client.Configured() {
		return notify.Skipped(ErrNotConfigured.Error())
	}
	to := a.client.OperatorEmail()
	if to == "" {
		return notify.Skipped("operator mailbox not configured")
	}

	email, err := render.OperatorEmail(order, a.shop)
	if err != nil {
		return notify.Failed(fmt.Errorf("render operator email: %w", err))
	}

	err = a.client.Send(ctx, Message{
		To:      to,
		ToName:  a.shop.Name,
		Subject: email.Subject,
		HTML:    email.HTML,
		Channel: OperatorChannel,
	})
	if err != nil {
		return notify.Failed(err)
	}
	return notify.Delivered()
}
