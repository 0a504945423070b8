package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

var ErrTokenNotFound = errors.New("payment token not found")

type TokenRepository struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

const tokenColumns = `
	id, user_id, gateway_id, token_id, type,
	brand, last4, expiry_month, expiry_year, fingerprint,
	email, bank_name, account_type, cashtag,
	created_at, updated_at
`

func (r *TokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM payment_tokens WHERE id = $1`

	token, err := scanToken(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find payment token %s: %w", id, err)
	}
	return token, nil
}

// FindByUser lists a user's tokens, newest last. An empty gatewayID returns
// every gateway's tokens.
func (r *TokenRepository) FindByUser(ctx context.Context, userID int64, gatewayID string) ([]*domain.PaymentToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM payment_tokens WHERE user_id = $1`
	args := []any{userID}
	if gatewayID != "" {
		query += ` AND gateway_id = $2`
		args = append(args, gatewayID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment tokens: %w", err)
	}

	tokens, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentToken, error) {
		return scanToken(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment tokens: %w", err)
	}
	return tokens, nil
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.PaymentToken) error {
	query := `
		INSERT INTO payment_tokens (` + tokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.GatewayID, token.TokenID, token.Type,
		token.Brand, token.Last4, token.ExpiryMonth, token.ExpiryYear, token.Fingerprint,
		token.Email, token.BankName, token.AccountType, token.Cashtag,
		token.CreatedAt, token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Update(ctx context.Context, token *domain.PaymentToken) error {
	query := `
		UPDATE payment_tokens SET
			token_id = $2,
			brand = $3,
			last4 = $4,
			expiry_month = $5,
			expiry_year = $6,
			fingerprint = $7,
			email = $8,
			bank_name = $9,
			account_type = $10,
			cashtag = $11,
			updated_at = $12
		WHERE id = $1
	`

	token.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, query,
		token.ID,
		token.TokenID,
		token.Brand,
		token.Last4,
		token.ExpiryMonth,
		token.ExpiryYear,
		token.Fingerprint,
		token.Email,
		token.BankName,
		token.AccountType,
		token.Cashtag,
		token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment token %s: %w", token.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payment_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment token %s: %w", id, err)
	}
	return nil
}

func scanToken(row pgx.Row) (*domain.PaymentToken, error) {
	var t domain.PaymentToken
	err := row.Scan(
		&t.ID, &t.UserID, &t.GatewayID, &t.TokenID, &t.Type,
		&t.Brand, &t.Last4, &t.ExpiryMonth, &t.ExpiryYear, &t.Fingerprint,
		&t.Email, &t.BankName, &t.AccountType, &t.Cashtag,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
