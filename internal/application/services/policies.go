package services

import (
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

// RequiredFields names the customer payload fields that must be present
// before a create call is attempted. Address lists the required address
// sub-fields by their remote names (line1, city, postal_code, ...).
type RequiredFields struct {
	Email   bool
	Name    bool
	Address []string
}

// RequiredFieldsPolicy supplies the required-field set for customer creation.
// Implementations replace the original system's filter hook.
type RequiredFieldsPolicy interface {
	RequiredFields() RequiredFields
}

// CheckoutRequiredFields is the default policy, derived from the checkout
// form's required billing fields.
type CheckoutRequiredFields struct{}

func (CheckoutRequiredFields) RequiredFields() RequiredFields {
	return RequiredFields{
		Email:   true,
		Name:    true,
		Address: []string{"line1", "city", "postal_code", "country"},
	}
}

// AddPaymentMethodRequiredFields applies on the add-payment-method page,
// where only an email is collected.
type AddPaymentMethodRequiredFields struct{}

func (AddPaymentMethodRequiredFields) RequiredFields() RequiredFields {
	return RequiredFields{Email: true}
}

// MetadataPolicy enriches the metadata map sent with customer payloads.
type MetadataPolicy interface {
	Enrich(identity domain.Identity, metadata map[string]string) map[string]string
}

// NoMetadata is the default metadata policy.
type NoMetadata struct{}

func (NoMetadata) Enrich(_ domain.Identity, metadata map[string]string) map[string]string {
	return metadata
}
