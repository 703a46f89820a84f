package models

import "github.com/shopspring/decimal"

// MaxScale bounds the decimal exponent accepted from input. Rounding a value
// rescales it by ten to the exponent difference, so larger exponents are
// refused before any arithmetic.
const MaxScale = 9

// MaxPrice is the largest value a decimal(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// ScaleOK reports whether d's exponent is within ±MaxScale.
func ScaleOK(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -MaxScale && e <= MaxScale
}

// Bounded reports whether d has a sane exponent and |d| <= max.
func Bounded(d, max decimal.Decimal) bool {
	return ScaleOK(d) && d.Abs().LessThanOrEqual(max)
}

// ValidPrice reports whether p is positive and still fits the price column
// after rounding to cents.
func ValidPrice(p decimal.Decimal) bool {
	if !ScaleOK(p) {
		return false
	}
	r := p.Round(2)
	return r.IsPositive() && r.LessThanOrEqual(MaxPrice)
}
