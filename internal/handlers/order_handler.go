package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/normalize"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/order-notifier/internal/service"
)

// OrderHandler handles direct ("pay at counter") order submissions
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/orders. Notifications are sent before the
// response; their outcomes never change the status code.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	// A client hanging up must not cut notifications short.
	ctx := context.WithoutCancel(r.Context())

	order, report, err := h.orderService.PlaceOrder(ctx, req)
	if err != nil {
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			h.log.Warn("order rejected", "field", verr.Field, "reason", verr.Reason)
			WriteError(w, http.StatusBadRequest, verr.Error(), h.log)
			return
		}
		h.log.Error("failed to place order", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.OrderResponse{Success: true, OrderID: order.ID}, h.log)
	h.log.Info("order created successfully",
		"order_id", order.ID,
		"items_count", len(order.Items),
		"failed_channels", report.Count(notify.StatusFailed),
	)
}
