package httpserver

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/service"
)

const SeedSecretHeader = "X-Seed-Secret"

type SeedHTTP struct {
	Svc    *service.SeedService
	Secret string
}

func (h *SeedHTTP) Seed(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.seed")

	got := c.Request().Header.Get(SeedSecretHeader)
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		l.Warn("seed_error", "status", 403, "reason", "bad seed secret")
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	}

	res, err := h.Svc.Run(ctx)
	if err != nil {
		l.Error("seed_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Seeding failed")
	}

	l.Info("seed_success", "created", len(res.Created), "existing", len(res.Existing))
	return c.JSON(http.StatusOK, res)
}
