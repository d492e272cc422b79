package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.GetCart(ctx, user.ID)
	if err != nil {
		return httpError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "add_to_cart_error", err)
	}

	item, err := h.Svc.AddToCart(ctx, user.ID, req)
	if err != nil {
		return httpError(l, "add_to_cart_error", err)
	}

	l.Info("item added successfully to cart", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.one.from.cart")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("delete_one_from_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		return badRequest(l, "delete_one_from_cart_error", "product_id is not an integer", err)
	}

	resp, err := h.Svc.DeleteOneFromCart(ctx, user.ID, productID)
	if err != nil {
		return httpError(l, "delete_one_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.all.from.cart")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("delete_all_from_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.ClearCart(ctx, user.ID); err != nil {
		return httpError(l, "delete_all_from_cart_error", err)
	}

	l.Info("cart successfully cleared")
	return c.NoContent(http.StatusNoContent)
}
