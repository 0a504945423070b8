package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerRepository stores the user -> remote customer id association. The
// mapping is single-valued: saving overwrites any previous id.
type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CustomerIDByUser returns the stored remote customer id, or "" when none is
// stored.
func (r *CustomerRepository) CustomerIDByUser(ctx context.Context, userID int64) (string, error) {
	query := `SELECT customer_id FROM stripe_customers WHERE user_id = $1`

	var customerID string
	err := r.db.QueryRow(ctx, query, userID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find customer id for user %d: %w", userID, err)
	}
	return customerID, nil
}

func (r *CustomerRepository) SaveCustomerID(ctx context.Context, userID int64, customerID string) error {
	query := `
		INSERT INTO stripe_customers (user_id, customer_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, userID, customerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save customer id for user %d: %w", userID, err)
	}
	return nil
}

func (r *CustomerRepository) DeleteCustomerID(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM stripe_customers WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete customer id for user %d: %w", userID, err)
	}
	return nil
}
