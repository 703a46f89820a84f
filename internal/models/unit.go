package models

import "strings"

// Unit is the granularity a category is sold in.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitPiece Unit = "piece"
	UnitDozen Unit = "dozen"
	UnitLiter Unit = "liter"
	UnitPack  Unit = "pack"
)

var units = []Unit{UnitKg, UnitPiece, UnitDozen, UnitLiter, UnitPack}

func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range units {
		if u == known {
			return u, true
		}
	}
	return "", false
}

// Slug derives a category value from its label.
func Slug(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "_"))
}
