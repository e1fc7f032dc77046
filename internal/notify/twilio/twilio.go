// Package twilio delivers the operator's instant message through the Twilio Messages API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	twiliogo "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/render"
)

// ChannelName identifies this channel in reports and metrics.
const ChannelName = "instant_message"

// CodeDuplicateMessage is the provider error code for a message it already
// accepted. It is treated as delivered.
const CodeDuplicateMessage = 63016

// Adapter sends one instant message per order to the configured operator number.
type Adapter struct {
	cfg        config.TwilioConfig
	shop       render.Shop
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates an adapter. A nil httpClient gets a client with a 10 second timeout.
// cfg.BaseURL replaces the SDK's API host when set.
func New(cfg config.TwilioConfig, shop render.Shop, httpClient *http.Client) *Adapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	a := &Adapter{cfg: cfg, shop: shop, httpClient: httpClient}
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		a.baseURL = u
	}
	return a
}

func (a *Adapter) Name() string { return ChannelName }

// Configured reports whether sends will be attempted.
func (a *Adapter) Configured() bool { return a.cfg.Configured() }

func (a *Adapter) Send(ctx context.Context, order models.Order) notify.Outcome {
	if !a.cfg.Configured() {
		return notify.Skipped("twilio credentials not configured")
	}

	body, err := render.InstantMessage(order, a.shop)
	if err != nil {
		return notify.Failed(fmt.Errorf("render instant message: %w", err))
	}

	params := &openapi.CreateMessageParams{}
	params.SetPathAccountSid(a.cfg.AccountSID)
	params.SetFrom(a.cfg.From)
	params.SetTo(a.cfg.To)
	params.SetBody(body)

	_, err = a.restClient(ctx).Api.CreateMessage(params)
	if err == nil {
		return notify.Delivered()
	}

	var restErr *twilioclient.TwilioRestError
	if !errors.As(err, &restErr) {
		return notify.Failed(fmt.Errorf("call twilio: %w", err))
	}
	if restErr.Code == CodeDuplicateMessage {
		return notify.DeliveredWith(fmt.Sprintf("provider reported duplicate (code %d)", restErr.Code))
	}
	return notify.Failed(&notify.DeliveryError{
		Channel:    ChannelName,
		StatusCode: restErr.Status,
		Body:       fmt.Sprintf("code %d: %s", restErr.Code, restErr.Message),
	})
}

// restClient builds an SDK client whose requests carry ctx and go to the
// configured host.
func (a *Adapter) restClient(ctx context.Context) *twiliogo.RestClient {
	next := a.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	c := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(a.cfg.AccountSID, a.cfg.AuthToken),
		HTTPClient: &http.Client{
			Timeout:   a.httpClient.Timeout,
			Transport: &requestTransport{ctx: ctx, baseURL: a.baseURL, next: next},
		},
	}
	c.SetAccountSid(a.cfg.AccountSID)
	return twiliogo.NewRestClientWithParams(twiliogo.ClientParams{Client: c})
}

// requestTransport binds SDK requests to the send context and the configured host.
type requestTransport struct {
	ctx     context.Context
	baseURL *url.URL
	next    http.RoundTripper
}

func (t *requestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if t.baseURL != nil {
		req.URL.Scheme = t.baseURL.Scheme
		req.URL.Host = t.baseURL.Host
		req.Host = t.baseURL.Host
	}
	return t.next.RoundTrip(req)
}
