package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error      string  `json:"error"`
	ProductIDs []int64 `json:"product_ids,omitempty"`
}

// usecaseのエラー種別をHTTPステータスに写す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsUsecaseError(err); ok {
		return c.JSON(statusForKind(ue.Kind), ErrorResponse{
			Error:      ue.Message,
			ProductIDs: ue.ProductIDs,
		})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func statusForKind(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindInvalidInput:
		return http.StatusBadRequest
	case usecase.KindProductUnavailable, usecase.KindInsufficientStock, usecase.KindEmptyCart:
		return http.StatusBadRequest
	case usecase.KindConflict:
		return http.StatusConflict
	case usecase.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// /products の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
