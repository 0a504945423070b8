package stripe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

func TestCard_PreferredBrand(t *testing.T) {
	card := &stripe.Card{Brand: "visa"}
	assert.Equal(t, "visa", card.PreferredBrand())

	card.Networks = &stripe.CardNetworks{Preferred: "cartes_bancaires"}
	assert.Equal(t, "cartes_bancaires", card.PreferredBrand())

	card.DisplayBrand = "mastercard"
	assert.Equal(t, "mastercard", card.PreferredBrand())
}

func TestPaymentMethod_OriginatingType(t *testing.T) {
	card := stripe.PaymentMethod{ID: "pm_1", Type: domain.MethodCard}
	assert.Equal(t, domain.MethodCard, card.OriginatingType())

	plain := stripe.PaymentMethod{
		ID:        "pm_2",
		Type:      domain.MethodSEPADebit,
		SEPADebit: &stripe.SEPADebit{Fingerprint: "fp"},
	}
	assert.Equal(t, domain.MethodSEPADebit, plain.OriginatingType())

	fromCharge := stripe.PaymentMethod{
		ID:   "pm_3",
		Type: domain.MethodSEPADebit,
		SEPADebit: &stripe.SEPADebit{
			GeneratedFrom: &stripe.GeneratedFrom{
				Charge: &stripe.GeneratedSource{
					PaymentMethodDetails: &stripe.PaymentMethodDetails{Type: domain.MethodIdeal},
				},
			},
		},
	}
	assert.Equal(t, domain.MethodIdeal, fromCharge.OriginatingType())

	fromSetup := stripe.PaymentMethod{
		ID:   "pm_4",
		Type: domain.MethodSEPADebit,
		SEPADebit: &stripe.SEPADebit{
			GeneratedFrom: &stripe.GeneratedFrom{
				SetupAttempt: &stripe.GeneratedSource{
					PaymentMethodDetails: &stripe.PaymentMethodDetails{Type: domain.MethodBancontact},
				},
			},
		},
	}
	assert.Equal(t, domain.MethodBancontact, fromSetup.OriginatingType())
}

func TestErrorPredicates(t *testing.T) {
	noSuch := &stripe.APIError{Type: stripe.ErrTypeInvalidRequest, Message: "No such customer: 'cus_1'"}
	assert.True(t, stripe.IsNoSuchCustomer(noSuch))
	assert.False(t, stripe.IsAlreadyAttached(noSuch))

	attached := &stripe.APIError{
		Type:    stripe.ErrTypeInvalidRequest,
		Message: "The payment method you provided has already been attached to a customer.",
	}
	assert.True(t, stripe.IsAlreadyAttached(attached))

	tooSmall := &stripe.APIError{Type: stripe.ErrTypeInvalidRequest, Code: stripe.ErrCodeAmountTooSmall}
	assert.True(t, stripe.IsAmountTooSmall(tooSmall))
	assert.False(t, stripe.IsAmountTooSmall(noSuch))
}
