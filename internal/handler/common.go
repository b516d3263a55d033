package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID reads the authenticated user ID that JWTAuth stored in the
// context. JWT numeric claims decode as float64; string subjects are
// parsed for tokens minted elsewhere.
func getUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	case uint64:
		return v, true
	}
	return 0, false
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
