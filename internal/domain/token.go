package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentToken is a locally stored reference to a reusable remote payment
// method. Type-specific display fields are populated per the token's type;
// the rest stay zero.
type PaymentToken struct {
	ID        uuid.UUID
	UserID    int64
	GatewayID string

	// TokenID is the remote payment method id ("pm_..." or legacy "src_...").
	TokenID string

	// Type is the originating payment method type, after unwrapping wrapped
	// APMs to the method that generated them.
	Type MethodType

	Brand       string
	Last4       string
	ExpiryMonth int
	ExpiryYear  int
	Fingerprint string
	Email       string
	BankName    string
	AccountType string
	Cashtag     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deprecated reports whether the token predates the current integration and
// can no longer charge: a wrapped-APM token stored on the card gateway before
// the per-method split, or a token whose id format is invalid for its type.
func (t *PaymentToken) Deprecated() bool {
	if t.GatewayID == GatewayStripe && t.Type == MethodSEPADebit {
		return true
	}
	return !IsValidPaymentMethodID(t.TokenID, t.Type)
}

// DisplayName is a human-readable label for account pages.
func (t *PaymentToken) DisplayName() string {
	switch t.Type {
	case MethodCard:
		return t.Brand + " ending in " + t.Last4
	case MethodLink:
		return "Stripe Link (" + t.Email + ")"
	case MethodAmazonPay:
		return "Amazon Pay (" + t.Email + ")"
	case MethodCashApp:
		return "Cash App Pay " + t.Cashtag
	case MethodUSBankAccount, MethodACSSDebit:
		return t.BankName + " ending in " + t.Last4
	default:
		return string(t.Type) + " ending in " + t.Last4
	}
}
