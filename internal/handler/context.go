package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"cardealer/internal/auth"
	"cardealer/internal/model"
)

// CurrentClaims extracts the authenticated identity set by the JWT middleware.
func CurrentClaims(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fail("missing token"))
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fail("invalid token claims"))
	}
	return claims, nil
}

func isAdmin(claims *auth.Claims) bool {
	return claims.Role == model.RoleAdmin
}
