package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat(t *testing.T) {
	f, ok := Float(12.5)
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = Float(float32(2))
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	f, ok = Float(7)
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	f, ok = Float(int64(9))
	assert.True(t, ok)
	assert.Equal(t, 9.0, f)

	_, ok = Float("100")
	assert.False(t, ok)

	_, ok = Float(nil)
	assert.False(t, ok)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "30000", FormatNumber(30000))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{999.9, "$999.90"},
		{1000, "$1,000.00"},
		{30000, "$30,000.00"},
		{1234567.5, "$1,234,567.50"},
		{-2500, "-$2,500.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestFormatCurrencyPtr(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrencyPtr(nil))

	v := 70000.0
	assert.Equal(t, "$70,000.00", FormatCurrencyPtr(&v))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.2%", FormatPercent(12.17))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "1000.0%", FormatPercent(1000))
}
