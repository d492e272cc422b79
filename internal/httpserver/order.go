package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "create_order_error", err)
	}

	buyerID, err := service.ResolveBuyer(req.UserID, user.ID, user.IsAdmin)
	if err != nil {
		return httpError(l, "create_order_error", err)
	}

	order, err := h.Svc.CreateOrder(ctx, req, buyerID)
	if err != nil {
		return httpError(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "user_id", buyerID, "items", len(order.Items))
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{
		Message: "order created",
		OrderID: order.ID,
		Total:   order.Total,
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", "id must be a positive integer", err)
	}

	order, err := h.Svc.GetOrder(ctx, id, user.ID, user.IsAdmin)
	if err != nil {
		return httpError(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my_orders")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	p := parsePage(c)
	total, orders, err := h.Svc.ListUserOrders(ctx, user.ID, p.Offset, p.Limit)
	if err != nil {
		return httpError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, p.Page, p.Offset, p.Limit, total))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	p := parsePage(c)
	total, orders, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), p.Offset, p.Limit)
	if err != nil {
		return httpError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, p.Page, p.Offset, p.Limit, total))
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_status_error", "id must be a positive integer", err)
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "update_status_error", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return httpError(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_order_error", "id must be a positive integer", err)
	}
	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return httpError(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("checkout_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := h.Svc.Checkout(ctx, user.ID)
	if err != nil {
		return httpError(l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", order.ID, "items", len(order.Items))
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{
		Message: "order created",
		OrderID: order.ID,
		Total:   order.Total,
	})
}
