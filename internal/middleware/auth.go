package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"clinic-api/internal/auth"
	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

type ctxKey string

const callerKey ctxKey = "caller"

// WithCaller stores the authenticated identity on ctx.
func WithCaller(ctx context.Context, c model.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFrom returns the identity Auth attached, or the zero Caller.
func CallerFrom(ctx context.Context) model.Caller {
	c, _ := ctx.Value(callerKey).(model.Caller)
	return c
}

// Auth requires an "Authorization: Bearer <jwt>" header and puts the
// token's {id, role} on the request context.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !ok || raw == "" {
				return service.Unauthorized("Authorization token missing")
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				return service.Unauthorized("Invalid or expired token")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithCaller(req.Context(), claims.Caller())))
			return next(c)
		}
	}
}
