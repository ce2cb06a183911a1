package server

import (
	"net/http"
	"strings"

	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/labstack/echo/v4"
)

func JWTAuthMiddleware(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			tokenStr := ""
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			} else if t := c.QueryParam("access_token"); t != "" {
				// Browser WebSocket clients cannot set headers on the
				// upgrade request, so the token may arrive as a query
				// parameter there.
				tokenStr = t
			}

			if tokenStr == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
			}

			claims, err := jwtManager.Parse(tokenStr)
			if err != nil || claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(auth.ContextClaimsKey, claims)

			return next(c)
		}
	}
}
