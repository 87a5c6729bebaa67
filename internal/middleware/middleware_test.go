package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/auth"
	"clinic-api/internal/middleware"
	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

const secret = "middleware-test-secret"

// errorStatus stands in for the real error handler: it only needs to turn
// domain errors into status codes.
func errorStatus(err error, c echo.Context) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
	}
	_ = c.JSON(code, map[string]string{"message": err.Error()})
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = errorStatus
	return e
}

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CallerFrom(c.Request().Context()))
}

func get(e *echo.Echo, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCallerContext(t *testing.T) {
	assert.Equal(t, model.Caller{}, middleware.CallerFrom(context.Background()))

	c := model.Caller{ID: "u1", Role: model.RoleDoctor}
	assert.Equal(t, c, middleware.CallerFrom(middleware.WithCaller(context.Background(), c)))
}

func TestAuth(t *testing.T) {
	e := newEcho()
	e.GET("/me", whoami, middleware.Auth(secret))

	tok, err := auth.MakeToken("user-1", model.RoleDoctor, secret, time.Hour)
	require.NoError(t, err)

	rec := get(e, "/me", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Caller
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.Caller{ID: "user-1", Role: model.RoleDoctor}, got)

	tests := []struct {
		name, header, msg string
	}{
		{"missing", "", "Authorization token missing"},
		{"no scheme", tok, "Authorization token missing"},
		{"empty bearer", "Bearer  ", "Authorization token missing"},
		{"garbage", "Bearer abc.def.ghi", "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(e, "/me", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := newEcho()
	e.GET("/doctor", whoami, middleware.Auth(secret), middleware.RequireRole(model.RoleDoctor))
	e.GET("/bare", whoami, middleware.RequireRole(model.RolePatient))

	doc, err := auth.MakeToken("d1", model.RoleDoctor, secret, time.Hour)
	require.NoError(t, err)
	pat, err := auth.MakeToken("p1", model.RolePatient, secret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(e, "/doctor", "Bearer "+doc).Code)
	assert.Equal(t, http.StatusForbidden, get(e, "/doctor", "Bearer "+pat).Code)
	// no Auth in front: the zero caller is unauthenticated
	assert.Equal(t, http.StatusUnauthorized, get(e, "/bare", "").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 3)
	for range 3 {
		assert.True(t, rl.Allow("1.2.3.4"))
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per key")
}

func TestRateLimitMiddleware(t *testing.T) {
	e := newEcho()
	e.GET("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		middleware.RateLimit(middleware.NewRateLimiter(0.001, 1)))

	assert.Equal(t, http.StatusNoContent, get(e, "/login", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/login", "").Code)
}

func TestJanitorStopsOnCancel(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	rl.Allow("k")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Janitor(ctx, time.Millisecond, time.Nanosecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor still running")
	}
	// the swept bucket comes back full
	assert.True(t, rl.Allow("k"))
}

func TestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := newEcho()
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/panic", func(echo.Context) error { panic("kaboom") })

	rec := get(e, "/ok", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/ok"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), rec.Header().Get(echo.HeaderXRequestID))

	buf.Reset()
	rec = get(e, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
	assert.Contains(t, buf.String(), `"status":500`)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}
