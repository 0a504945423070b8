package handlers

import (
	"net/http"

	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest"
)

type createCustomerResponse struct {
	ID string `json:"id"`
}

// CreateCustomer ensures the order has a remote customer and returns its id.
func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	customerID, err := h.customerService.ReconcileOrderCustomer(r.Context(), id)
	if err != nil {
		h.logger.Error("create customer failed", "order_id", id, "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, createCustomerResponse{ID: customerID})
}
