package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"clinic-api/internal/middleware"
	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc *service.Service
	db  Pinger
	log zerolog.Logger
}

func New(svc *service.Service, db Pinger, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, db: db, log: log}
}

type message struct {
	Message string `json:"message"`
}

func caller(c echo.Context) model.Caller {
	return middleware.CallerFrom(c.Request().Context())
}

// bind decodes the request into v; a malformed body is the client's fault.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return service.InvalidInput("Malformed request body")
	}
	return nil
}

// status maps an error onto the HTTP status and the message the client sees.
func status(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}
	return http.StatusInternalServerError, "Internal server error"
}

// ErrorHandler renders every error as {"message": ...}. Anything that is not
// a known domain error is logged and hidden behind a generic 500.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := status(err)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message{Message: msg})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Healthcare API running"})
}

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check: database unreachable")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
