package middleware

import (
	"fmt"
	"strings"

	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/alimikegami/pi-callback-service/pkg/response"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn)
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn)
			}

			c.Set("user", token)

			return next(c)
		}
	}
}
