package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout と /orders のHTTP
type OrderHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewOrderHandler(uc *usecase.CheckoutUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID int64 `json:"order_id"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("")
	g.Use(middleware.CustomerSession(cfg))

	g.POST("/checkout", h.checkout)
	g.GET("/orders/:id", h.confirmation)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	orderID, err := h.uc.Checkout(c.Request().Context(), customerID, req.PaymentMethod)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CheckoutResponse{OrderID: orderID})
}

func (h *OrderHandler) confirmation(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrderConfirmation(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
