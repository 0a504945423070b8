// Package domain holds the local data model: identities, orders, payment tokens
// and the payment method type taxonomy shared with the remote processor.
package domain

import "strings"

// MethodType is a Stripe payment method type tag.
// https://docs.stripe.com/api/payment_methods/object#payment_method_object-type
type MethodType string

const (
	MethodCard          MethodType = "card"
	MethodLink          MethodType = "link"
	MethodSEPADebit     MethodType = "sepa_debit"
	MethodCashApp       MethodType = "cashapp"
	MethodUSBankAccount MethodType = "us_bank_account"
	MethodACSSDebit     MethodType = "acss_debit"
	MethodBacsDebit     MethodType = "bacs_debit"
	MethodBECSDebit     MethodType = "au_becs_debit"
	MethodAmazonPay     MethodType = "amazon_pay"
	MethodIdeal         MethodType = "ideal"
	MethodBancontact    MethodType = "bancontact"
	MethodSofort        MethodType = "sofort"
)

// GatewayStripe is the base gateway association for card-like methods.
const GatewayStripe = "stripe"

// ReusableGatewayByMethod maps every reusable payment method type to the local
// gateway association its tokens are stored under.
var ReusableGatewayByMethod = map[MethodType]string{
	MethodCard:          GatewayStripe,
	MethodLink:          GatewayStripe,
	MethodAmazonPay:     GatewayStripe,
	MethodSEPADebit:     GatewayStripe + "_" + string(MethodSEPADebit),
	MethodCashApp:       GatewayStripe + "_" + string(MethodCashApp),
	MethodUSBankAccount: GatewayStripe + "_" + string(MethodUSBankAccount),
	MethodACSSDebit:     GatewayStripe + "_" + string(MethodACSSDebit),
	MethodBacsDebit:     GatewayStripe + "_" + string(MethodBacsDebit),
	MethodBECSDebit:     GatewayStripe + "_" + string(MethodBECSDebit),
	MethodIdeal:         GatewayStripe + "_" + string(MethodIdeal),
	MethodBancontact:    GatewayStripe + "_" + string(MethodBancontact),
	MethodSofort:        GatewayStripe + "_" + string(MethodSofort),
}

// IsReusableGateway reports whether the gateway association belongs to one of
// the reusable payment method gateways.
func IsReusableGateway(gatewayID string) bool {
	for _, id := range ReusableGatewayByMethod {
		if id == gatewayID {
			return true
		}
	}
	return false
}

// IsValidPaymentMethodID reports whether a remote payment method id is usable
// for the given method type. Ids beginning with "src_" belong to the legacy
// Sources API and are only valid for cards; everything else must be "pm_".
func IsValidPaymentMethodID(id string, methodType MethodType) bool {
	if strings.HasPrefix(id, "pm_") {
		return true
	}
	return strings.HasPrefix(id, "src_") && methodType == MethodCard
}
