package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/meat_shop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/meat_shop/internal/middleware/logging"
	"github.com/Skotchmaster/meat_shop/internal/middleware/metrics"
)

type Deps struct {
	DB         *gorm.DB
	Products   *ProductHTTP
	Categories *CategoryHTTP
	Auth       *AuthHTTP
	Seed       *SeedHTTP
	AuthMW     *authmw.AutoRefreshMiddleware
	Metrics    *metrics.Metrics
}

// New builds the echo instance with the standard middleware chain.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(echomw.CORS())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)

	adminProducts := products.Group("", d.AuthMW.RequireAdmin)
	adminProducts.POST("", d.Products.CreateProduct)
	adminProducts.PUT("/:id", d.Products.UpdateProduct)
	adminProducts.DELETE("/:id", d.Products.DeleteProduct)

	categories := api.Group("/categories")
	categories.GET("", d.Categories.GetCategories)

	adminCategories := categories.Group("", d.AuthMW.RequireAdmin)
	adminCategories.POST("", d.Categories.CreateCategory)
	adminCategories.DELETE("/:id", d.Categories.DeleteCategory)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.LogOut)
	auth.GET("/me", d.Auth.Me, d.AuthMW.RequireAuth)

	api.POST("/admin/seed", d.Seed.Seed)
}

func ready(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
