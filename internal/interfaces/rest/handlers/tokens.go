package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest"
)

type paymentTokenResponse struct {
	ID          string `json:"id"`
	GatewayID   string `json:"gateway_id"`
	TokenID     string `json:"token_id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Brand       string `json:"brand,omitempty"`
	Last4       string `json:"last4,omitempty"`
	ExpiryMonth int    `json:"expiry_month,omitempty"`
	ExpiryYear  int    `json:"expiry_year,omitempty"`
	Email       string `json:"email,omitempty"`
	BankName    string `json:"bank_name,omitempty"`
	Cashtag     string `json:"cashtag,omitempty"`
}

// ListPaymentTokens returns a user's payment tokens after synchronizing them
// with the remote account.
func (h *Handlers) ListPaymentTokens(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	gatewayID := r.URL.Query().Get("gateway_id")

	tokens, err := h.tokenService.Sync(r.Context(), userID, gatewayID)
	if err != nil {
		h.logger.Error("token listing failed", "user_id", userID, "error", err)
		rest.WriteError(w, err)
		return
	}

	out := make([]paymentTokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, toTokenResponse(t))
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

// DeletePaymentToken removes a token and detaches its remote payment method.
func (h *Handlers) DeletePaymentToken(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rawID := r.PathValue("token_id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError("token_id must be a UUID"))
		return
	}

	token, err := h.tokenRepo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrTokenNotFound) {
			rest.WriteError(w, application.NewTokenNotFoundError(rawID))
			return
		}
		rest.WriteError(w, application.NewInternalError(err))
		return
	}
	if token.UserID != userID {
		rest.WriteError(w, application.NewTokenNotFoundError(rawID))
		return
	}

	if err := h.tokenService.DeleteToken(r.Context(), token); err != nil {
		h.logger.Error("token deletion failed", "token_id", rawID, "error", err)
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathUserID(r *http.Request) (int64, error) {
	raw := r.PathValue("user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, application.NewInvalidInputError("user_id must be a positive integer")
	}
	return id, nil
}

func toTokenResponse(t *domain.PaymentToken) paymentTokenResponse {
	return paymentTokenResponse{
		ID:          t.ID.String(),
		GatewayID:   t.GatewayID,
		TokenID:     t.TokenID,
		Type:        string(t.Type),
		DisplayName: t.DisplayName(),
		Brand:       t.Brand,
		Last4:       t.Last4,
		ExpiryMonth: t.ExpiryMonth,
		ExpiryYear:  t.ExpiryYear,
		Email:       t.Email,
		BankName:    t.BankName,
		Cashtag:     t.Cashtag,
	}
}
