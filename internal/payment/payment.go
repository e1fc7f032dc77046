// Package payment retrieves checkout sessions from the payment gateway and
// converts them into provider-neutral models.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
)

// ErrNotConfigured is returned when no gateway secret key is set.
var ErrNotConfigured = errors.New("payment gateway not configured")

// Sessions fetches completed checkout sessions.
type Sessions interface {
	Retrieve(ctx context.Context, id string) (models.PaymentSession, []models.LineItem, error)
	LineItems(ctx context.Context, id string) ([]models.LineItem, error)
}

// lineItemLimit caps how many lines a single session listing returns.
const lineItemLimit = 100

// Stripe implements Sessions with the Stripe API.
type Stripe struct {
	api *client.API
}

// NewStripe returns a gateway client. backends may be nil to use Stripe's servers.
func NewStripe(secretKey string, backends *stripe.Backends) *Stripe {
	if secretKey == "" {
		return &Stripe{}
	}
	return &Stripe{api: client.New(secretKey, backends)}
}

// BackendsWithClient routes every Stripe call through httpClient, so its timeout
// bounds each request.
func BackendsWithClient(httpClient *http.Client) *stripe.Backends {
	return stripe.NewBackendsWithConfig(&stripe.BackendConfig{HTTPClient: httpClient})
}

func (s *Stripe) Configured() bool { return s.api != nil }

// Retrieve loads a session with its line items expanded. When the expansion
// comes back empty the lines are listed separately.
func (s *Stripe) Retrieve(ctx context.Context, id string) (models.PaymentSession, []models.LineItem, error) {
	if s.api == nil {
		return models.PaymentSession{}, nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	cs, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return models.PaymentSession{}, nil, fmt.Errorf("retrieve checkout session %s: %w", id, err)
	}

	session, lines := Convert(cs)
	if len(lines) > 0 {
		return session, lines, nil
	}

	lines, err = s.LineItems(ctx, id)
	if err != nil {
		// The session itself is still usable; the normalizer may not need the lines.
		return session, nil, nil
	}
	return session, lines, nil
}

// LineItems lists the billed lines of a session.
func (s *Stripe) LineItems(ctx context.Context, id string) ([]models.LineItem, error) {
	if s.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionListLineItemsParams{Session: stripe.String(id)}
	params.Context = ctx
	params.Limit = stripe.Int64(lineItemLimit)

	var lines []models.LineItem
	iter := s.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		lines = append(lines, convertLineItem(iter.LineItem()))
		if len(lines) >= lineItemLimit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list line items for %s: %w", id, err)
	}
	return lines, nil
}

// Convert maps a Stripe checkout session to the service's models.
func Convert(cs *stripe.CheckoutSession) (models.PaymentSession, []models.LineItem) {
	if cs == nil {
		return models.PaymentSession{}, nil
	}

	session := models.PaymentSession{
		ID:            cs.ID,
		AmountTotal:   cs.AmountTotal,
		CustomerEmail: cs.CustomerEmail,
		PaymentStatus: string(cs.PaymentStatus),
		Metadata:      cs.Metadata,
	}
	if cs.CustomerDetails != nil {
		session.CustomerDetailsEmail = cs.CustomerDetails.Email
	}

	var lines []models.LineItem
	if cs.LineItems != nil {
		for _, li := range cs.LineItems.Data {
			lines = append(lines, convertLineItem(li))
		}
	}
	return session, lines
}

func convertLineItem(li *stripe.LineItem) models.LineItem {
	if li == nil {
		return models.LineItem{}
	}
	return models.LineItem{
		Description: li.Description,
		Quantity:    li.Quantity,
		AmountTotal: li.AmountTotal,
	}
}

// FromEventObject decodes the session embedded in a webhook event. It is the
// fallback when the gateway cannot be reached.
func FromEventObject(raw json.RawMessage) (models.PaymentSession, []models.LineItem, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(raw, &cs); err != nil {
		return models.PaymentSession{}, nil, fmt.Errorf("decode checkout session: %w", err)
	}
	session, lines := Convert(&cs)
	return session, lines, nil
}
