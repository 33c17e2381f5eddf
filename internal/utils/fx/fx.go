// Package fx provides the static exchange-rate lookup used to bring foreign
// currency documents into the base currency before aggregation. This is a
// fixed table, not a market feed; multi-currency consolidation is out of
// scope.
package fx

import "github.com/shopspring/decimal"

// Converter converts amounts into the base currency using a static rate
// table keyed by currency code.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewConverter builds a converter for the given base currency. Rates map a
// foreign currency code to its value in the base currency.
func NewConverter(base string, rates map[string]decimal.Decimal) *Converter {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[code] = rate
	}
	return &Converter{base: base, rates: normalized}
}

// Base returns the base currency code.
func (c *Converter) Base() string {
	return c.base
}

// Convert returns the amount expressed in the base currency. Amounts already
// in the base currency, an empty currency code, or a currency missing from
// the table pass through unchanged; a missing rate must not drop a document
// from the books.
func (c *Converter) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == "" || currency == c.base {
		return amount
	}
	rate, ok := c.rates[currency]
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}
