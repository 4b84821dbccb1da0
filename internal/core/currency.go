package core

import "github.com/shopspring/decimal"

// Symbols for the supported display currencies. Display only; amounts carry
// no currency and are never converted.
var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
}

// CurrencySymbol returns the display symbol for a currency code, falling
// back to the code itself when unknown.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatAmount renders an amount with a currency symbol and two decimals,
// e.g. "₹1500.00". Negative amounts keep their sign after the symbol.
func FormatAmount(code string, amount decimal.Decimal) string {
	return CurrencySymbol(code) + amount.StringFixed(2)
}
