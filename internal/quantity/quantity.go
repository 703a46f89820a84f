// Package quantity maps a sale unit to its stepping granularity, display
// label and rounding precision.
package quantity

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

var (
	quarter = decimal.RequireFromString("0.25")
	one     = decimal.NewFromInt(1)
)

// MaxQuantity caps a single cart line.
var MaxQuantity = decimal.NewFromInt(10000)

// Step is the increment for the +/- controls. A dozen-denominated quantity
// counts dozens, so its step is one.
func Step(u models.Unit) decimal.Decimal {
	if canonical(u) == models.UnitKg {
		return quarter
	}
	return one
}

func DisplayUnit(u models.Unit) string {
	switch canonical(u) {
	case models.UnitKg:
		return "kg"
	case models.UnitPiece:
		return "pcs"
	case models.UnitDozen:
		return "dozen"
	case models.UnitLiter:
		return "L"
	default:
		return string(u)
	}
}

// Precision is the number of decimal places a quantity keeps.
func Precision(u models.Unit) int32 {
	if Fractional(u) {
		return 3
	}
	return 0
}

func Fractional(u models.Unit) bool {
	switch canonical(u) {
	case models.UnitKg, models.UnitLiter:
		return true
	default:
		return false
	}
}

// Normalize rounds q to the unit precision and clamps negatives to zero.
// A value whose exponent is out of range normalizes to zero.
func Normalize(u models.Unit, q decimal.Decimal) decimal.Decimal {
	if !models.ScaleOK(q) {
		return decimal.Zero
	}
	q = q.Round(Precision(u))
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}

func Increment(u models.Unit, q decimal.Decimal) decimal.Decimal {
	return Normalize(u, q.Add(Step(u)))
}

func Decrement(u models.Unit, q decimal.Decimal) decimal.Decimal {
	return Normalize(u, q.Sub(Step(u)))
}

// Parse reads free-hand input. ok is false for garbage, negative input and
// anything above MaxQuantity.
func Parse(u models.Unit, raw string) (q decimal.Decimal, ok bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || !models.Bounded(d, MaxQuantity) {
		return decimal.Zero, false
	}
	return Normalize(u, d), true
}

// Format renders q at the unit precision without trailing zeros.
func Format(u models.Unit, q decimal.Decimal) string {
	return Normalize(u, q).String()
}

func canonical(u models.Unit) models.Unit {
	if p, ok := models.ParseUnit(string(u)); ok {
		return p
	}
	return u
}
