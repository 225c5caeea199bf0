package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type AddCartResponse struct {
	CartLineID int64 `json:"cart_line_id"`
}

type UpdateCartRequest struct {
	CartID   int64  `json:"cart_id"`
	Action   string `json:"action"` // remove / set_qty
	Quantity int64  `json:"quantity"`
}

// /cart配下を登録（セッション必須）
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.CustomerSession(cfg))

	g.GET("", h.view)
	g.POST("", h.add)
	g.POST("/update", h.update)
}

func getCustomerIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxCustomerIDKey)
	id, ok := v.(int64)
	return id, ok
}

func (h *CartHandler) view(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ViewCart(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lineID, err := h.uc.AddToCart(c.Request().Context(), customerID, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, AddCartResponse{CartLineID: lineID})
}

func (h *CartHandler) update(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.UpdateCart(c.Request().Context(), customerID, req.CartID,
		usecase.CartUpdateAction(req.Action), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ViewCart(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
