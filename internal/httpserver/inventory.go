package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type InventoryHTTP struct {
	Svc *service.InventoryService
}

func (h *InventoryHTTP) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.get_stock")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_stock_error", "id must be a positive integer", err)
	}

	stock, err := h.Svc.GetStock(ctx, id)
	if err != nil {
		return httpError(l, "get_stock_error", err)
	}
	return c.JSON(http.StatusOK, transport.StockResponse{ProductID: id, Stock: stock})
}

func (h *InventoryHTTP) CheckStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.check_stock")

	var req transport.StockCheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "check_stock_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "check_stock_error", err)
	}

	resp, err := h.Svc.CheckStock(ctx, req)
	if err != nil {
		return httpError(l, "check_stock_error", err)
	}
	return c.JSON(http.StatusOK, resp)
}
