package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/metrics"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	customerH *handler.CustomerHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	customerH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
}
