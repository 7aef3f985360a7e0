package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of currencies a wallet can hold.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyAED Currency = "AED"
	CurrencyEUR Currency = "EUR"
	CurrencySAR Currency = "SAR"
)

// SupportedCurrencies lists every currency in display order.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyAED, CurrencyEUR, CurrencySAR}

var currencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyAED: "د.إ",
	CurrencyEUR: "€",
	CurrencySAR: "ر.س",
}

// ParseCurrency normalizes s and checks it against the supported set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("currency", "Invalid currency")
	}
	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

func (c Currency) String() string { return string(c) }

// Symbol returns the display symbol, falling back to the ISO code.
func (c Currency) Symbol() string {
	if symbol, ok := currencySymbols[c]; ok {
		return symbol
	}
	return string(c)
}

// FormatAmount renders an amount with two decimals and thousands
// separators, e.g. "1,234.50".
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// Format renders "USD 1,234.50".
func (c Currency) Format(amount decimal.Decimal) string {
	return string(c) + " " + FormatAmount(amount)
}

// FormatSymbol renders "$1,234.50".
func (c Currency) FormatSymbol(amount decimal.Decimal) string {
	return c.Symbol() + FormatAmount(amount)
}
