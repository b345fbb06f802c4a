package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	f := Default()

	assert.Equal(t, "₹1,200", f.Price(decimal.NewFromInt(1200)))
	assert.Equal(t, "₹899", f.Price(decimal.NewFromInt(899)))
	assert.Equal(t, "₹1,299.5", f.Price(decimal.RequireFromString("1299.50")))
}

func TestAmount(t *testing.T) {
	f := Default()

	assert.Equal(t, "₹2,400.00", f.Amount(decimal.NewFromInt(2400)))
	assert.Equal(t, "₹0.00", f.Amount(decimal.Zero))
	assert.Equal(t, "₹499.50", f.Amount(decimal.RequireFromString("499.5")))
}

func TestFixed(t *testing.T) {
	f := Default()

	assert.Equal(t, "₹2400.00", f.Fixed(decimal.NewFromInt(2400)))
}

func TestNew_InvalidLocale(t *testing.T) {
	_, err := New("$", "not a locale!!")
	require.Error(t, err)
}

func TestNew_OtherSymbol(t *testing.T) {
	f, err := New("$", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "$1,200.00", f.Amount(decimal.NewFromInt(1200)))
}
