package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "session"
	CtxCustomerIDKey  = "customer_id" // int64
)

// セッションcookie（署名つきJWT）から customer_id を解決するミドルウェア。
// /start で発行されたcookieが無ければ 401。
func CustomerSession(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("please start a session first"))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.SessionSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid session"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid session"))
			}

			customerID, err := parseCustomerID(claims["sub"])
			if err != nil || customerID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid session"))
			}

			//contextへ保存
			c.Set(CtxCustomerIDKey, customerID)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// subをint64に変換する
func parseCustomerID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
