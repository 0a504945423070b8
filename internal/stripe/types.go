// Package stripe is a typed client for the remote payment API. Responses are
// decoded once here into tagged structs so downstream code matches on variants
// instead of probing raw JSON.
package stripe

import (
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

// Address is the remote address sub-object.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ShippingDetails is the optional shipping sub-object on a customer.
type ShippingDetails struct {
	Name    string  `json:"name,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// Customer is a remote customer record.
type Customer struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Description      string            `json:"description"`
	Address          *Address          `json:"address"`
	Shipping         *ShippingDetails  `json:"shipping"`
	PreferredLocales []string          `json:"preferred_locales"`
	Metadata         map[string]string `json:"metadata"`
}

// CustomerParams is the payload for customer create and update calls.
type CustomerParams struct {
	Name             string            `json:"name,omitempty"`
	Email            string            `json:"email,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Description      string            `json:"description,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	Shipping         *ShippingDetails  `json:"shipping,omitempty"`
	PreferredLocales []string          `json:"preferred_locales,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// BillingDetails is the billing block attached to a payment method.
type BillingDetails struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Addr  *Address `json:"address"`
}

// Card holds card-specific payment method fields.
type Card struct {
	Brand        string        `json:"brand"`
	DisplayBrand string        `json:"display_brand"`
	Networks     *CardNetworks `json:"networks"`
	Last4        string        `json:"last4"`
	ExpMonth     int           `json:"exp_month"`
	ExpYear      int           `json:"exp_year"`
	Fingerprint  string        `json:"fingerprint"`
}

// PreferredBrand resolves the brand to display, preferring the cardholder's
// chosen network over the raw brand.
func (c *Card) PreferredBrand() string {
	if c.DisplayBrand != "" {
		return c.DisplayBrand
	}
	if c.Networks != nil && c.Networks.Preferred != "" {
		return c.Networks.Preferred
	}
	return c.Brand
}

type CardNetworks struct {
	Preferred string `json:"preferred"`
}

// GeneratedFrom carries the provenance of a wrapped payment method: the charge
// or setup attempt that produced it records the originating method type.
type GeneratedFrom struct {
	Charge       *GeneratedSource `json:"charge"`
	SetupAttempt *GeneratedSource `json:"setup_attempt"`
}

type GeneratedSource struct {
	PaymentMethodDetails *PaymentMethodDetails `json:"payment_method_details"`
}

type PaymentMethodDetails struct {
	Type domain.MethodType `json:"type"`
}

// SEPADebit holds SEPA direct debit fields. SEPA is the wrapper type for
// iDEAL, Bancontact and Sofort instruments.
type SEPADebit struct {
	Last4         string         `json:"last4"`
	Fingerprint   string         `json:"fingerprint"`
	BankName      string         `json:"bank_name"`
	GeneratedFrom *GeneratedFrom `json:"generated_from"`
}

// USBankAccount holds ACH debit fields.
type USBankAccount struct {
	Last4       string `json:"last4"`
	Fingerprint string `json:"fingerprint"`
	BankName    string `json:"bank_name"`
	AccountType string `json:"account_type"`
}

// BankDebit covers the bank debit variants that share a last4/fingerprint/bank
// name shape (ACSS, Bacs, BECS).
type BankDebit struct {
	Last4       string `json:"last4"`
	Fingerprint string `json:"fingerprint"`
	BankName    string `json:"bank_name"`
}

type Link struct {
	Email string `json:"email"`
}

type CashApp struct {
	Cashtag string `json:"cashtag"`
}

// PaymentMethod is a remote payment method. Exactly one of the type-specific
// sub-objects is populated, matching Type.
type PaymentMethod struct {
	ID             string            `json:"id"`
	Type           domain.MethodType `json:"type"`
	BillingDetails *BillingDetails   `json:"billing_details"`
	Customer       string            `json:"customer"`

	Card          *Card          `json:"card"`
	SEPADebit     *SEPADebit     `json:"sepa_debit"`
	USBankAccount *USBankAccount `json:"us_bank_account"`
	ACSSDebit     *BankDebit     `json:"acss_debit"`
	BacsDebit     *BankDebit     `json:"bacs_debit"`
	BECSDebit     *BankDebit     `json:"au_becs_debit"`
	Link          *Link          `json:"link"`
	CashApp       *CashApp       `json:"cashapp"`
}

// OriginatingType resolves the true method type behind a payment method,
// unwrapping SEPA-wrapped APMs through their generated_from provenance.
func (pm *PaymentMethod) OriginatingType() domain.MethodType {
	if pm.Type != domain.MethodSEPADebit || pm.SEPADebit == nil || pm.SEPADebit.GeneratedFrom == nil {
		return pm.Type
	}

	gf := pm.SEPADebit.GeneratedFrom
	if gf.Charge != nil && gf.Charge.PaymentMethodDetails != nil {
		return gf.Charge.PaymentMethodDetails.Type
	}
	if gf.SetupAttempt != nil && gf.SetupAttempt.PaymentMethodDetails != nil {
		return gf.SetupAttempt.PaymentMethodDetails.Type
	}
	return pm.Type
}

// IntentStatus is the remote payment intent lifecycle status.
type IntentStatus string

const (
	IntentProcessing      IntentStatus = "processing"
	IntentRequiresCapture IntentStatus = "requires_capture"
	IntentSucceeded       IntentStatus = "succeeded"
	IntentCanceled        IntentStatus = "canceled"
)

// PaymentIntent is a remote in-progress authorization/capture workflow.
type PaymentIntent struct {
	ID       string       `json:"id"`
	Status   IntentStatus `json:"status"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	Customer string       `json:"customer"`
}

// list is the remote list envelope.
type list[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}
