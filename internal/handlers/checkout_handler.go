package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/payment"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/service"
)

// CheckoutHandler serves checkout session details to the confirmation page.
type CheckoutHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

func NewCheckoutHandler(orderService *service.OrderService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{orderService: orderService, log: log}
}

type checkoutSessionResponse struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	CustomerEmail *string           `json:"customer_email"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// GetSession handles GET /api/checkout-session?session_id=...
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.orderService.CheckoutSession(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSessionID):
			WriteError(w, http.StatusBadRequest, "session_id is required", h.log)
		case errors.Is(err, payment.ErrNotConfigured):
			WriteError(w, http.StatusServiceUnavailable, "Payment gateway not configured", h.log)
		default:
			h.log.Error("failed to retrieve checkout session", "error", err)
			WriteError(w, http.StatusBadGateway, "Failed to retrieve checkout session", h.log)
		}
		return
	}

	resp := checkoutSessionResponse{
		ID:            session.ID,
		AmountTotal:   session.AmountTotal,
		PaymentStatus: session.PaymentStatus,
		Metadata:      session.Metadata,
	}
	if session.CustomerEmail != "" {
		resp.CustomerEmail = &session.CustomerEmail
	}
	WriteJSON(w, http.StatusOK, resp, h.log)
}
