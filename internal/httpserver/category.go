package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return httpError(l, "list_categories_error", err)
	}
	if items == nil {
		return c.JSON(http.StatusOK, []any{})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_category_error", "id is not an integer", err)
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return httpError(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "create_category_error", err)
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return httpError(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_category_error", "id is not an integer", err)
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_category_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "patch_category_error", err)
	}

	cat, err := h.Svc.PatchCategory(ctx, id, req)
	if err != nil {
		return httpError(l, "patch_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_category_error", "id is not an integer", err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return httpError(l, "delete_category_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
