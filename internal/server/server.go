package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func New(
	cfg config.Config,
	customerH *handler.CustomerHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, customerH, productH, cartH, orderH)

	return e
}
