package domain

import "strings"

// Minimum charge amounts by currency, in the currency's smallest unit.
// https://docs.stripe.com/currencies#minimum-and-maximum-charge-amounts
var minimumAmounts = map[string]int64{
	"USD": 50,    // $0.50
	"AED": 200,   // 2.00 د.إ
	"AUD": 50,    // $0.50
	"BGN": 100,   // лв1.00
	"BRL": 50,    // R$0.50
	"CAD": 50,    // $0.50
	"CHF": 50,    // 0.50 Fr
	"CZK": 1500,  // 15.00Kč
	"DKK": 250,   // 2.50-kr
	"EUR": 50,    // €0.50
	"GBP": 30,    // £0.30
	"HKD": 400,   // $4.00
	"HUF": 17500, // 175.00 Ft
	"INR": 50,    // ₹0.50
	"JPY": 50,    // ¥50
	"MXN": 1000,  // $10
	"MYR": 200,   // RM 2
	"NOK": 300,   // 3.00-kr
	"NZD": 50,    // $0.50
	"PLN": 200,   // 2.00 zł
	"RON": 200,   // lei2.00
	"SEK": 300,   // 3.00-kr
	"SGD": 50,    // $0.50
	"THB": 1000,  // ฿10
}

// MinimumChargeAmount returns the documented minimum charge for a currency in
// its smallest unit. ok is false for currencies without a documented minimum.
func MinimumChargeAmount(currency string) (amount int64, ok bool) {
	amount, ok = minimumAmounts[strings.ToUpper(currency)]
	return amount, ok
}
