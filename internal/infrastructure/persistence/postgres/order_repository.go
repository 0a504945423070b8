// Package postgres implements the application's persistence ports over a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, status, currency, total, total_refunded, user_id,
	billing_first_name, billing_last_name, billing_email, billing_phone,
	billing_line1, billing_line2, billing_city, billing_state,
	billing_postal_code, billing_country,
	shipping_first_name, shipping_last_name,
	shipping_line1, shipping_line2, shipping_city, shipping_state,
	shipping_postal_code, shipping_country,
	stripe_customer_id, payment_method, payment_method_title,
	payment_intent_id, created_at, updated_at
`

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order %d: %w", id, err)
	}
	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders SET
			status = $2,
			stripe_customer_id = $3,
			payment_method = $4,
			payment_method_title = $5,
			payment_intent_id = $6,
			updated_at = $7
		WHERE id = $1
	`

	order.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, query,
		order.ID,
		order.Status,
		order.StripeCustomerID,
		order.PaymentMethod,
		order.PaymentMethodTitle,
		order.PaymentIntentID,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.Status, &o.Currency, &o.Total, &o.TotalRefunded, &o.UserID,
		&o.Billing.FirstName, &o.Billing.LastName, &o.Billing.Email, &o.Billing.Phone,
		&o.Billing.Address.Line1, &o.Billing.Address.Line2, &o.Billing.Address.City,
		&o.Billing.Address.State, &o.Billing.Address.PostalCode, &o.Billing.Address.Country,
		&o.Shipping.FirstName, &o.Shipping.LastName,
		&o.Shipping.Address.Line1, &o.Shipping.Address.Line2, &o.Shipping.Address.City,
		&o.Shipping.Address.State, &o.Shipping.Address.PostalCode, &o.Shipping.Address.Country,
		&o.StripeCustomerID, &o.PaymentMethod, &o.PaymentMethodTitle,
		&o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
