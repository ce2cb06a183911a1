package auth

import "github.com/labstack/echo/v4"

// ContextClaimsKey is where the JWT middleware stores the verified claims.
// Handlers read tenant identity from here and nowhere else.
const ContextClaimsKey = "claims"

// ClaimsFrom extracts the verified claims a previous middleware stored.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextClaimsKey).(*Claims)
	return claims, ok
}
