package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestAddToCart_IncrementsExistingLine(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	p := testutil.SeedProduct(t, db, "pen", "1.25", 10)

	first := &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2}
	require.NoError(t, r.AddToCart(ctx, first))
	second := &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 3}
	require.NoError(t, r.AddToCart(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := r.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestDeleteOneFromCart(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	p := testutil.SeedProduct(t, db, "pen", "1.25", 10)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2}))

	deleted, item, err := r.DeleteOneFromCart(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, item.Quantity)

	deleted, item, err = r.DeleteOneFromCart(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, item.Quantity)

	_, _, err = r.DeleteOneFromCart(ctx, 1, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetCartLines_DropsDeletedProducts(t *testing.T) {
	db := testutil.NewDB(t)
	r := New(db)
	ctx := context.Background()

	keep := testutil.SeedProduct(t, db, "pen", "1.25", 10)
	gone := testutil.SeedProduct(t, db, "ink", "3.00", 10)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: keep.ID, Quantity: 4}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: gone.ID, Quantity: 1}))
	require.NoError(t, r.DeleteProduct(ctx, gone.ID))

	lines, err := r.GetCartLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, keep.ID, lines[0].ProductID)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, "pen", lines[0].Product.Name)

	require.NoError(t, r.ClearCart(ctx, 1))
	lines, err = r.GetCartLines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
