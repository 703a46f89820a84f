package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch categories")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		code, msg := statusOf(err, "Category already exists")
		if code >= 500 {
			l.Error("category_create_error", "status", code, "error", err)
			return echo.NewHTTPError(code, "Failed to create category")
		}
		l.Warn("category_create_error", "status", code, "reason", msg, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	l.Info("create_category_success", "category_id", cat.ID, "value", cat.Value)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("category_delete_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category id")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		code, msg := statusOf(err, "")
		if code >= 500 {
			l.Error("category_delete_error", "status", code, "error", err)
			return echo.NewHTTPError(code, "Failed to delete category")
		}
		l.Warn("category_delete_error", "status", code, "category_id", id, "reason", msg)
		return echo.NewHTTPError(code, msg)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Category deleted"})
}
