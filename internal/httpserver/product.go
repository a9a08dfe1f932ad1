package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "product_id", id, "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, size, offset := pagination(c)
	total, items, err := h.Svc.ListProducts(ctx, offset, size)
	if err != nil {
		l.Error("list_products_error", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": meta(page, size, total),
	})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page, size, offset := pagination(c)
	total, items, err := h.Svc.SearchProducts(ctx, q, offset, size)
	if err != nil {
		l.Error("search_products_error", "query", q, "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": meta(page, size, total),
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return domainError(err)
	}

	l.Info("create_product_success", "product_id", product.ID, "code", product.Code)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, req, id)
	if err != nil {
		l.Warn("patch_product_error", "product_id", id, "error", err)
		return domainError(err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_error", "product_id", id, "error", err)
		return domainError(err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.adjust_stock")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("adjust_stock_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.AdjustStock(ctx, id, req.Stock)
	if err != nil {
		l.Warn("adjust_stock_error", "product_id", id, "error", err)
		return domainError(err)
	}

	l.Info("adjust_stock_success", "product_id", id, "stock", product.Stock)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_categories_error", "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *ProductHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_error", "error", err)
		return domainError(err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}
