package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"kg", UnitKg, true},
		{" Dozen ", UnitDozen, true},
		{"LITER", UnitLiter, true},
		{"gram", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseUnit(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "boiler_chicken", Slug("  Boiler   Chicken "))
	assert.Equal(t, "eggs", Slug("Eggs"))
	assert.Equal(t, "country_chicken_live", Slug("Country Chicken\tLive"))
}

func TestUnits_ReturnsCopy(t *testing.T) {
	u := Units()
	u[0] = "bogus"
	assert.Equal(t, UnitKg, Units()[0])
}
