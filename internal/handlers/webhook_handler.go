package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/normalize"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/webhook"
)

// WebhookHandler receives payment provider callbacks.
type WebhookHandler struct {
	guard        *webhook.Guard
	orderService *service.OrderService
	log          *slog.Logger
}

func NewWebhookHandler(guard *webhook.Guard, orderService *service.OrderService, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{guard: guard, orderService: orderService, log: log}
}

// HandleStripe handles POST /api/webhook/stripe. Unauthenticated or unreadable
// requests get 400; every authenticated delivery is acknowledged with 200.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		// An unreadable or oversized body cannot be verified.
		h.log.Warn("failed to read webhook body", "error", err)
		WriteError(w, http.StatusBadRequest, "Webhook Error: unreadable body", h.log)
		return
	}

	evt, err := h.guard.Verify(body, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		var authErr *webhook.AuthenticationError
		if errors.As(err, &authErr) {
			h.log.Warn("webhook signature failed", "reason", authErr.Reason)
			WriteError(w, http.StatusBadRequest, "Webhook Error: "+authErr.Reason, h.log)
			return
		}
		h.log.Error("unusable webhook payload", "error", err)
		h.acknowledge(w)
		return
	}

	report, err := h.orderService.HandlePaymentEvent(context.WithoutCancel(r.Context()), evt)
	switch {
	case err == nil:
	case normalize.IsValidation(err):
		h.log.Warn("paid order could not be normalized", "event_id", evt.ID, "session_id", evt.SessionID, "error", err)
	default:
		h.log.Error("failed to handle payment event", "event_id", evt.ID, "session_id", evt.SessionID, "error", err)
	}
	if report != nil {
		h.log.Debug("webhook processed", "event_id", evt.ID, "dispatch_id", report.ID)
	}

	h.acknowledge(w)
}

func (h *WebhookHandler) acknowledge(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"received": true}, h.log)
}
