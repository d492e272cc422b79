package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumItems_Exact(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{Quantity: 1, Price: decimal.RequireFromString("5.50")},
	}

	total := SumItems(items)
	assert.True(t, total.Equal(decimal.RequireFromString("25.50")), "got %s", total)
	assert.Equal(t, "25.50", total.StringFixed(2))
}

func TestSumItems_NoFloatDrift(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3, Price: decimal.RequireFromString("0.10")},
		{Quantity: 1, Price: decimal.RequireFromString("0.20")},
	}
	assert.Equal(t, "0.50", SumItems(items).StringFixed(2))
}

func TestSumItems_Empty(t *testing.T) {
	assert.True(t, SumItems(nil).IsZero())
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "cart", "completed", "cancelled"} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}
