package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidPrice(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"200", true},
		{"0.01", true},
		{"99999999.99", true},
		{"99999999.994", true},
		{"99999999.995", false},
		{"123456789.00", false},
		{"0", false},
		{"0.001", false},
		{"-5", false},
		{"1e2000000000", false},
		{"1e-2000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPrice(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestBounded(t *testing.T) {
	max := decimal.NewFromInt(100)
	assert.True(t, Bounded(decimal.RequireFromString("99.5"), max))
	assert.False(t, Bounded(decimal.RequireFromString("101"), max))
	assert.False(t, Bounded(decimal.RequireFromString("1e10"), max))
	assert.False(t, Bounded(decimal.RequireFromString("1e-10"), max))
}
