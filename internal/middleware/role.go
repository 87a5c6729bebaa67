package middleware

import (
	"github.com/labstack/echo/v4"

	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

// RequireRole rejects the request unless the authenticated caller holds
// role. Mount it after Auth.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.Authorize(CallerFrom(c.Request().Context()), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}
