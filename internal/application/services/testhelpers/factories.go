package testhelpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// DefaultIdentity returns a logged-in user identity with full billing details.
func DefaultIdentity() domain.Identity {
	return domain.Identity{
		UserID:   42,
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Locale:   "en",
		Billing: domain.ContactDetails{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jdoe@example.com",
			Phone:     "+15551234567",
			Address: domain.Address{
				Line1:      "123 Main St",
				City:       "Springfield",
				State:      "IL",
				PostalCode: "62701",
				Country:    "US",
			},
		},
	}
}

// GuestIdentity returns a guest identity sharing DefaultIdentity's billing
// details.
func GuestIdentity() domain.Identity {
	id := DefaultIdentity()
	id.UserID = 0
	id.Username = ""
	return id
}

// PendingOrder returns a pending order owned by DefaultIdentity's user.
func PendingOrder(id int64) *domain.Order {
	identity := DefaultIdentity()
	return &domain.Order{
		ID:        id,
		Status:    domain.OrderPending,
		Currency:  "USD",
		Total:     decimal.NewFromInt(100),
		UserID:    identity.UserID,
		Billing:   identity.Billing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CardToken returns a stored card token for the user.
func CardToken(userID int64, tokenID, fingerprint string) *domain.PaymentToken {
	return &domain.PaymentToken{
		ID:          uuid.New(),
		UserID:      userID,
		GatewayID:   domain.GatewayStripe,
		TokenID:     tokenID,
		Type:        domain.MethodCard,
		Brand:       "visa",
		Last4:       "4242",
		ExpiryMonth: 12,
		ExpiryYear:  2030,
		Fingerprint: fingerprint,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CardPaymentMethod returns a remote card payment method.
func CardPaymentMethod(id, fingerprint string) stripe.PaymentMethod {
	return stripe.PaymentMethod{
		ID:   id,
		Type: domain.MethodCard,
		Card: &stripe.Card{
			Brand:       "visa",
			Last4:       "4242",
			ExpMonth:    12,
			ExpYear:     2030,
			Fingerprint: fingerprint,
		},
	}
}

// SEPAWrappedMethod returns a SEPA payment method generated from an iDEAL
// charge.
func SEPAWrappedMethod(id, fingerprint string, origin domain.MethodType) stripe.PaymentMethod {
	return stripe.PaymentMethod{
		ID:   id,
		Type: domain.MethodSEPADebit,
		SEPADebit: &stripe.SEPADebit{
			Last4:       "3000",
			Fingerprint: fingerprint,
			BankName:    "Rabobank",
			GeneratedFrom: &stripe.GeneratedFrom{
				Charge: &stripe.GeneratedSource{
					PaymentMethodDetails: &stripe.PaymentMethodDetails{Type: origin},
				},
			},
		},
	}
}

// RemoteCustomer returns a remote customer record with the given id.
func RemoteCustomer(id string) *stripe.Customer {
	return &stripe.Customer{
		ID:    id,
		Name:  "Jane Doe",
		Email: "jdoe@example.com",
	}
}
