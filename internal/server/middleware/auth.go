package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
}

// AuthMiddleware accepts the master API key or a JWT signed by a key from
// the JWKS endpoint. With neither configured every request passes.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ac := c.(*AppContext)
		app := ac.App
		if !app.AuthEnabled() {
			return next(c)
		}

		authHeader := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c)
		}

		if app.MasterAPIKey != "" && token == app.MasterAPIKey {
			ac.User = &AppUser{Subject: "master", Role: "admin"}
			return next(c)
		}

		if app.Key == nil {
			return unauthorized(c)
		}
		parsed, err := jwt.Parse(token, app.Key.Keyfunc)
		if err != nil || !parsed.Valid {
			return unauthorized(c)
		}

		subject, err := parsed.Claims.GetSubject()
		if err != nil || subject == "" {
			return unauthorized(c)
		}

		role := "user"
		if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
			if r, ok := claims["role"].(string); ok && r != "" {
				role = r
			}
		}

		ac.User = &AppUser{Subject: subject, Role: role}
		return next(c)
	}
}
