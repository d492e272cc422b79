package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func TestCart_Flow(t *testing.T) {
	env := newTestEnv(t)
	user, cookies := env.login(t, "buyer@example.com", "user")
	mug := testutil.SeedProduct(t, env.DB, "Mug", "4.50", 10)
	pot := testutil.SeedProduct(t, env.DB, "Pot", "12.00", 10)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/cart", nil).Code)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/cart", map[string]any{"product_id": mug.ID, "quantity": 2}, cookies...).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/cart", map[string]any{"product_id": mug.ID}, cookies...).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/cart", map[string]any{"product_id": pot.ID}, cookies...).Code)

	rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"product_id": 999}, cookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cart", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[transport.CartResponse](t, rec)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "25.5", cart.Total.String())

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/%d", pot.ID), nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"product_id":%d,"deleted":true,"quantity":0}`, pot.ID), rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/cart/checkout", nil, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[createdOrder](t, rec)
	assert.Equal(t, "13.5", got.Total)

	var order models.Order
	require.NoError(t, env.DB.Preload("Items").First(&order, got.OrderID).Error)
	assert.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	rec = env.do(t, http.MethodGet, "/api/cart", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[transport.CartResponse](t, rec).Items)

	rec = env.do(t, http.MethodPost, "/api/cart/checkout", nil, cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_Clear(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.login(t, "buyer@example.com", "user")
	p := testutil.SeedProduct(t, env.DB, "Mug", "4.50", 10)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/cart", map[string]any{"product_id": p.ID, "quantity": 3}, cookies...).Code)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/%d", p.ID), nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"product_id":%d,"deleted":false,"quantity":2}`, p.ID), rec.Body.String())

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/cart", nil, cookies...).Code)

	var n int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&n).Error)
	assert.Zero(t, n)
}
