package handler

import (
	"net/http"
	"time"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// セッショントークンの発行はmainで実装を差し込む
type SessionIssuer interface {
	Issue(customerID int64, now time.Time) (string, time.Time, error)
}

// /start のHTTP。顧客を引き当ててセッションcookieを発行する
type CustomerHandler struct {
	uc     *usecase.IdentityUsecase
	issuer SessionIssuer
}

// DI
func NewCustomerHandler(uc *usecase.IdentityUsecase, issuer SessionIssuer) *CustomerHandler {
	return &CustomerHandler{uc: uc, issuer: issuer}
}

type StartRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type StartResponse struct {
	CustomerID int64 `json:"customer_id"`
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/start", h.start)
}

func (h *CustomerHandler) start(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	customerID, err := h.uc.StartSession(c.Request().Context(), usecase.StartSessionInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}

	token, expiresAt, err := h.issuer.Issue(customerID, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, StartResponse{CustomerID: customerID})
}
