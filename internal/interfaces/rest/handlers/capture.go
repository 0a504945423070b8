package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest"
)

type captureTerminalPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// CaptureTerminalPayment captures an in-person payment intent against the
// order and completes the order.
func (h *Handlers) CaptureTerminalPayment(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var req captureTerminalPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		rest.WriteError(w, application.NewInvalidInputError("payment_intent_id is required"))
		return
	}

	result, err := h.captureService.Capture(r.Context(), id, req.PaymentIntentID)
	if err != nil {
		h.logger.Error("terminal capture failed",
			"order_id", id,
			"payment_intent_id", req.PaymentIntentID,
			"error", err,
		)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, result)
}
