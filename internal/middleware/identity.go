package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user identifier from the Echo
// context, where JWTAuth stored the token subject. Numeric JWT claims
// decode as float64. Unauthenticated requests key as "guest" so
// rate-limit keys stay well formed on public routes.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	}
	return "guest"
}
