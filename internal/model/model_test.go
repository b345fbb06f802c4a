package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalAndItemCount(t *testing.T) {
	items := []CartItem{
		{ProductID: 3, Quantity: 2, Price: decimal.NewFromInt(1200)},
		{ProductID: 5, Quantity: 1, Price: decimal.RequireFromString("499.50")},
		{ProductID: 9, Quantity: 0, Price: decimal.NewFromInt(800)},
	}

	assert.True(t, Total(items).Equal(decimal.RequireFromString("2899.50")))
	assert.Equal(t, 3, ItemCount(items))
}

func TestTotal_Empty(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
	assert.Equal(t, 0, ItemCount(nil))
}

func TestProductDecode_ImageKeys(t *testing.T) {
	var fromList Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"Poppy Dress","price":1200,"image_url":"/img/poppy.jpg","category":"dresses"}`), &fromList))
	assert.Equal(t, "/img/poppy.jpg", fromList.ImageRef())
	assert.True(t, fromList.Price.Equal(decimal.NewFromInt(1200)))

	var fromDetail Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"Poppy Dress","price":"1200.00","image":"/img/a.jpg","image_url":"/img/b.jpg"}`), &fromDetail))
	assert.Equal(t, "/img/a.jpg", fromDetail.ImageRef())
}

func TestNewOrderRequest(t *testing.T) {
	items := []CartItem{
		{ID: 1, ProductID: 3, Quantity: 2, Name: "Poppy Dress", Price: decimal.NewFromInt(1200)},
	}

	req := NewOrderRequest(items, "12 Park St, Kolkata, 700016, India")

	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(3), req.Items[0].ProductID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.True(t, req.Total.Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, "12 Park St, Kolkata, 700016, India", req.ShippingAddress)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "added", Success("added").String())
	assert.Equal(t, "Please login: no active session", Failure("Please login", ErrNoSession).String())
	assert.Equal(t, "bare", Failure("bare", nil).String())

	res := Failure("x", ErrNoSession)
	assert.False(t, res.OK)
	assert.True(t, errors.Is(res.Err, ErrNoSession))
}

func TestOrderDecode_Timestamps(t *testing.T) {
	cases := map[string]string{
		"rfc3339":   `"2025-03-01T10:15:00Z"`,
		"zoneless":  `"2025-03-01T10:15:00.123456"`,
		"sql space": `"2025-03-01 10:15:00"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var o Order
			require.NoError(t, json.Unmarshal([]byte(`{"id":4,"total":2400,"created_at":`+raw+`}`), &o))
			assert.Equal(t, 2025, o.CreatedAt.Year())
			assert.Equal(t, 10, o.CreatedAt.Hour())
			assert.Equal(t, 15, o.CreatedAt.Minute())
		})
	}
}

func TestOrderDecode_BadTimestamp(t *testing.T) {
	var o Order
	err := json.Unmarshal([]byte(`{"id":4,"created_at":"yesterday"}`), &o)
	assert.Error(t, err)
}

func TestOrderDecode_NullTimestamp(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"created_at":null}`), &o))
	assert.True(t, o.CreatedAt.IsZero())
}
