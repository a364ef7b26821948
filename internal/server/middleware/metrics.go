package middleware

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/docvis/internal/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware counts requests by route pattern and status code.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			code := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
			} else if err != nil {
				code = http.StatusInternalServerError
			}
			m.RecordHTTPRequest(c.Request().Method, c.Path(), code)
			return err
		}
	}
}
