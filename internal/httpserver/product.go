package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_failed", "id is not an integer", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return httpError(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	var categoryID *uint
	if raw := c.QueryParam("category_id"); raw != "" {
		v := util.ParseIntDefault(raw, 0)
		if v <= 0 {
			return badRequest(l, "get_products_error", "category_id must be a positive integer", nil)
		}
		id := uint(v)
		categoryID = &id
	}

	p := parsePage(c)
	total, items, err := h.Svc.GetProducts(ctx, categoryID, p.Offset, p.Limit)
	if err != nil {
		return httpError(l, "get_products_error", err)
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, transport.NewPage(items, p.Page, p.Offset, p.Limit, total))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return badRequest(l, "search_error", "query param q is required", nil)
	}

	p := parsePage(c)
	total, items, err := h.Svc.SearchProducts(ctx, q, p.Offset, p.Limit)
	if err != nil {
		return httpError(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, p.Page, p.Offset, p.Limit, total))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "product_create_error", err)
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return httpError(l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patch_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "product_patch_error", "id is not an integer", err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_patch_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "product_patch_error", err)
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return httpError(l, "product_patch_error", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "product_delete_error", "id is not an integer", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return httpError(l, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
