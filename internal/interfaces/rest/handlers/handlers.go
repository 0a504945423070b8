// Package handlers exposes the order-scoped payment operations over REST.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/application/services"
)

type Handlers struct {
	customerService *services.CustomerService
	captureService  *services.CaptureService
	tokenService    *services.TokenService
	tokenRepo       application.TokenRepository
	logger          *slog.Logger
}

func NewHandlers(
	customerService *services.CustomerService,
	captureService *services.CaptureService,
	tokenService *services.TokenService,
	tokenRepo application.TokenRepository,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		customerService: customerService,
		captureService:  captureService,
		tokenService:    tokenService,
		tokenRepo:       tokenRepo,
		logger:          logger,
	}
}

// Register wires the routes onto the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/orders/{order_id}/create_customer", h.CreateCustomer)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/capture_terminal_payment", h.CaptureTerminalPayment)
	mux.HandleFunc("GET /api/v1/users/{user_id}/payment_tokens", h.ListPaymentTokens)
	mux.HandleFunc("DELETE /api/v1/users/{user_id}/payment_tokens/{token_id}", h.DeletePaymentToken)
}

// orderID parses the order id path segment. A non-numeric id is invalid
// input, not a missing order.
func orderID(r *http.Request) (int64, error) {
	raw := r.PathValue("order_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, application.NewInvalidInputError("order_id must be a positive integer")
	}
	return id, nil
}
