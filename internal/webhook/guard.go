// Package webhook authenticates payment provider callbacks and extracts the
// checkout session they refer to.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
)

// SignatureHeader is the request header carrying the provider signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how old a signed timestamp may be.
const DefaultTolerance = 5 * time.Minute

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMissingSecret    = errors.New("webhook secret not configured")
)

// AuthenticationError means the request could not be proven to come from the provider.
// Callers respond 400 and stop.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("webhook authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Event is an authenticated webhook delivery.
type Event struct {
	ID        string
	Kind      string
	Created   time.Time
	SessionID string
	// Object is the raw data.object payload (the checkout session for completed payments).
	Object json.RawMessage
	// Ignored is set for kinds that do not signal a completed payment. They are
	// acknowledged but never dispatched.
	Ignored bool
}

// envelope is the subset of the provider's event JSON the guard relies on.
type envelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Guard verifies signatures with a shared secret fixed at construction.
type Guard struct {
	secret    string
	tolerance time.Duration
}

func NewGuard(secret string, tolerance time.Duration) *Guard {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Guard{secret: secret, tolerance: tolerance}
}

// Verify authenticates rawBody against the signature header and parses the event.
// It never deduplicates: the same delivery verified twice yields the same Event twice.
func (g *Guard) Verify(rawBody []byte, signatureHeader string) (Event, error) {
	if g.secret == "" {
		return Event{}, &AuthenticationError{Reason: "no shared secret", Err: ErrMissingSecret}
	}

	if err := stripewebhook.ValidatePayloadWithTolerance(rawBody, signatureHeader, g.secret, g.tolerance); err != nil {
		return Event{}, &AuthenticationError{Reason: err.Error(), Err: errors.Join(ErrInvalidSignature, err)}
	}

	var env envelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return Event{}, fmt.Errorf("decode webhook envelope: %w", err)
	}

	evt := Event{
		ID:      env.ID,
		Kind:    env.Type,
		Created: time.Unix(env.Created, 0).UTC(),
		Object:  env.Data.Object,
	}

	if stripe.EventType(env.Type) != stripe.EventTypeCheckoutSessionCompleted {
		evt.Ignored = true
		return evt, nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data.Object, &obj); err != nil || obj.ID == "" {
		return Event{}, fmt.Errorf("webhook %s carries no session id", env.ID)
	}
	evt.SessionID = obj.ID

	return evt, nil
}

// SignPayload returns a signature header value the Guard accepts for payload at ts.
func SignPayload(payload []byte, secret string, ts time.Time) string {
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: ts,
	})
	return signed.Header
}
