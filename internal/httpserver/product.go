package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/search"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/transport"
	"github.com/Skotchmaster/meat_shop/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Searcher search.Searcher
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product id")
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		code, msg := statusOf(err, "")
		l.Warn("get_product_error", "status", code, "product_id", id, "error", err)
		return echo.NewHTTPError(code, msg)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Searcher.Search(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "reason", "search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		code, msg := statusOf(err, "")
		if code >= 500 {
			l.Error("product_create_error", "status", code, "reason", "cannot add product to db", "error", err)
			return echo.NewHTTPError(code, "Failed to create product")
		}
		l.Warn("product_create_error", "status", code, "reason", msg, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product id")
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		code, msg := statusOf(err, "")
		if code >= 500 {
			l.Error("product_update_error", "status", code, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(code, "Failed to update product")
		}
		l.Warn("product_update_error", "status", code, "reason", msg, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product id")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		code, msg := statusOf(err, "")
		if code >= 500 {
			l.Error("product_delete_error", "status", code, "reason", "cannot delete product", "error", err)
			return echo.NewHTTPError(code, "Failed to delete product")
		}
		l.Warn("product_delete_error", "status", code, "product_id", id, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Product deleted"})
}
