// Package brevo sends transactional email through the Brevo SMTP API and
// exposes the customer and operator email channels built on it.
package brevo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	brevoapi "github.com/getbrevo/brevo-go/lib"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
)

// ErrNotConfigured is returned by Send when no API key is set.
var ErrNotConfigured = errors.New("brevo api key not configured")

// Message is one outgoing email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	// Channel labels provider errors; defaults to "email".
	Channel string
}

// Client sends transactional email with the Brevo SDK.
type Client struct {
	cfg config.BrevoConfig
	api *brevoapi.APIClient
}

func NewClient(cfg config.BrevoConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.brevo.com"
	}

	apiCfg := brevoapi.NewConfiguration()
	apiCfg.BasePath = strings.TrimRight(cfg.BaseURL, "/") + "/v3"
	apiCfg.HTTPClient = httpClient
	apiCfg.AddDefaultHeader("api-key", cfg.APIKey)

	return &Client{cfg: cfg, api: brevoapi.NewAPIClient(apiCfg)}
}

// Configured reports whether an API key and a sender address are present.
func (c *Client) Configured() bool { return c.cfg.Configured() }

// OperatorEmail is the shop mailbox alerts go to.
func (c *Client) OperatorEmail() string { return c.cfg.OperatorEmail }

// Send posts msg. Any non-2xx answer is returned as a *notify.DeliveryError.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	_, resp, err := c.api.TransactionalEmailsApi.SendTransacEmail(ctx, brevoapi.SendSmtpEmail{
		Sender:      &brevoapi.SendSmtpEmailSender{Name: c.cfg.SenderName, Email: c.cfg.SenderEmail},
		To:          []brevoapi.SendSmtpEmailTo{{Email: msg.To, Name: msg.ToName}},
		Subject:     msg.Subject,
		HtmlContent: msg.HTML,
	})
	if err == nil {
		return nil
	}
	if resp == nil {
		return fmt.Errorf("call brevo: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Accepted; only the acknowledgement body failed to decode.
		return nil
	}

	channel := msg.Channel
	if channel == "" {
		channel = "email"
	}
	body := err.Error()
	var apiErr brevoapi.GenericSwaggerError
	if errors.As(err, &apiErr) && len(apiErr.Body()) > 0 {
		body = string(apiErr.Body())
	}
	return &notify.DeliveryError{Channel: channel, StatusCode: resp.StatusCode, Body: body}
}
