package application

import (
	"context"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/google/uuid"
)

// OrderRepository is the port for order persistence.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}

// TokenRepository is the port for local payment token persistence.
type TokenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentToken, error)
	FindByUser(ctx context.Context, userID int64, gatewayID string) ([]*domain.PaymentToken, error)
	Create(ctx context.Context, token *domain.PaymentToken) error
	Update(ctx context.Context, token *domain.PaymentToken) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository owns the single-valued user -> remote customer id mapping.
type CustomerRepository interface {
	CustomerIDByUser(ctx context.Context, userID int64) (string, error)
	SaveCustomerID(ctx context.Context, userID int64, customerID string) error
	DeleteCustomerID(ctx context.Context, userID int64) error
}
